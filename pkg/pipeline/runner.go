package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rothko/pkg/cache"
	"github.com/matzehuels/rothko/pkg/core/compose"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	"github.com/matzehuels/rothko/pkg/observability"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Random feeds unseeded runs. Nil means hashing.Global.
	Random hashing.Source
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer means
// DefaultKeyer, a nil logger means log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs compose → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	composeStart := time.Now()
	c, hit, err := r.ComposeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Composition = c
	result.Stats.Shapes = len(c.Shapes)
	result.Stats.ComposeTime = time.Since(composeStart)
	result.CacheInfo.ComposeHit = hit

	opts.Logger.Info("composed",
		"pattern", opts.Pattern,
		"seeded", c.Seeded,
		"shapes", len(c.Shapes),
		"cached", hit,
		"duration", result.Stats.ComposeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, compHash, renderHit, err := r.renderWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CompositionHash = compHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComposeWithCacheInfo resolves the composition and reports whether it came
// from the cache.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, opts Options) (*compose.Composition, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, opts.Pattern, opts.Seeded())

	var key string
	if opts.Seeded() {
		key = r.Keyer.CompositionKey(opts.CompositionKeyOpts())
		if !opts.Refresh {
			if c, ok := r.cachedComposition(ctx, key); ok {
				hooks.OnComposeComplete(ctx, opts.Pattern, len(c.Shapes), 0, nil)
				return c, true, nil
			}
		}
	}

	start := time.Now()
	c, err := compose.Generate(opts.ComposeConfig(), opts.Canvas(), r.Random)
	hooks.OnComposeComplete(ctx, opts.Pattern, shapeCount(c), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := sink.RenderJSON(c); err == nil {
			r.store(ctx, "composition", key, data, cache.TTLComposition)
		}
	}
	return c, false, nil
}

// Compose is ComposeWithCacheInfo without the cache hit flag.
func (r *Runner) Compose(ctx context.Context, opts Options) (*compose.Composition, error) {
	c, _, err := r.ComposeWithCacheInfo(ctx, opts)
	return c, err
}

func (r *Runner) cachedComposition(ctx context.Context, key string) (*compose.Composition, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "composition")
		return nil, false
	}
	c, err := sink.ParseJSON(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "composition")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "composition")
	return c, true
}

// Render encodes c in every format of opts, using the cache for seeded
// compositions.
func (r *Runner) Render(ctx context.Context, c *compose.Composition, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts, _, _, err := r.renderWithCacheInfo(ctx, c, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, c *compose.Composition, opts Options) (map[string][]byte, string, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)

	if !c.Seeded {
		start := time.Now()
		artifacts, err := RenderAll(c, opts)
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return artifacts, "", false, err
	}

	doc, err := sink.RenderJSON(c)
	if err != nil {
		return nil, "", false, err
	}
	compHash := cache.Hash(doc)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(compHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, 0, nil)
		return artifacts, compHash, true, nil
	}

	start := time.Now()
	partial := opts
	partial.Formats = missing
	rendered, err := RenderAll(c, partial)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(compHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return artifacts, compHash, false, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger runs before validation so the runner's logger wins over the
// discard default.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func shapeCount(c *compose.Composition) int {
	if c == nil {
		return 0
	}
	return len(c.Shapes)
}
