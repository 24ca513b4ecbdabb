package cache

// ScopedKeyer wraps a Keyer with a prefix, separating cache namespaces that
// share one backend (for example one Redis instance serving several
// deployments, or a cache version bump).
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "rothko:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

func (k *ScopedKeyer) CompositionKey(opts CompositionKeyOpts) string {
	return k.prefix + k.inner.CompositionKey(opts)
}

func (k *ScopedKeyer) ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(compositionHash, opts)
}
