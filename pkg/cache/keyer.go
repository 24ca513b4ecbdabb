package cache

// CompositionKeyOpts identifies one seeded composition.
type CompositionKeyOpts struct {
	Seed       string  `json:"seed"`
	ShapeCount int     `json:"shape_count"`
	Pattern    string  `json:"pattern"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// ArtifactKeyOpts identifies one encoding of a composition.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	NoStroke   bool    `json:"no_stroke,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// CompositionKey addresses the JSON form of a composition.
	CompositionKey(opts CompositionKeyOpts) string

	// ArtifactKey addresses one rendered artifact of the composition whose
	// content hash is compositionHash.
	ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) CompositionKey(opts CompositionKeyOpts) string {
	return hashKey("composition", opts)
}

func (DefaultKeyer) ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", compositionHash, opts)
}
