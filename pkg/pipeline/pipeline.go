// Package pipeline runs the compose → render pipeline shared by the CLI and
// the HTTP service.
//
// The pipeline has two stages:
//
//  1. Compose: resolve the composition for a seed, pattern and canvas
//  2. Render: encode the composition in each requested format
//
// Seeded runs are deterministic, so both stages are cached: the composition
// under its option key and every artifact under the composition's content
// hash. Random runs bypass the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Seed:    "No. 61",
//	    Pattern: "circle",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rothko/pkg/cache"
	"github.com/matzehuels/rothko/pkg/core/color"
	"github.com/matzehuels/rothko/pkg/core/compose"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

const (
	DefaultPattern = "quad"
	DefaultWidth   = geom.FallbackWidth
	DefaultHeight  = geom.FallbackHeight
	DefaultScale   = 1.0

	// MaxScale bounds the raster scale factor.
	MaxScale = 8.0
)

// Options configures one pipeline run. It is the JSON body of API requests.
type Options struct {
	// Compose options
	Seed       string  `json:"seed,omitempty"`
	ShapeCount int     `json:"shape_count,omitempty"`
	Pattern    string  `json:"pattern,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`

	// ExcludeColors lists "#rrggbb" colours random compositions avoid.
	ExcludeColors []string `json:"exclude_colors,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	NoStroke   bool     `json:"no_stroke,omitempty"`

	// Refresh skips cache reads; fresh results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	kind      shape.Kind
	validated bool
}

// Result holds the outputs of a run.
type Result struct {
	Composition *compose.Composition

	// CompositionHash is the SHA-256 of the composition's JSON form. Empty for
	// random runs.
	CompositionHash string

	// Artifacts maps format to encoded output.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Shapes      int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	ComposeHit bool
	RenderHit  bool // every artifact came from the cache
}

// ValidateAndSetDefaults checks the options and fills in defaults. Calling it
// again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidateShapeCount(o.ShapeCount); err != nil {
		return err
	}
	if err := errs.ValidateCanvas(o.Width, o.Height); err != nil {
		return err
	}

	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	kind, err := shape.ParseKind(o.Pattern)
	if err != nil {
		return err
	}
	o.kind = kind
	o.Pattern = kind.String()

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := o.normalizeExcludeColors(); err != nil {
		return err
	}

	if err := o.setRenderDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

func (o *Options) setRenderDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatSVG}
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		norm, err := sink.ParseFormat(f)
		if err != nil {
			return err
		}
		if !slices.Contains(formats, norm) {
			formats = append(formats, norm)
		}
	}
	o.Formats = formats

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be in (0, %v]: %v", MaxScale, o.Scale)
	}
	if slices.Contains(o.Formats, sink.FormatPNG) {
		if err := errs.ValidateRaster(o.Width, o.Height, o.Scale); err != nil {
			return err
		}
	}
	if o.Background != "" {
		bg, err := sink.ParseBackground(o.Background)
		if err != nil {
			return err
		}
		o.Background = bg
	}
	return nil
}

// normalizeExcludeColors lower-cases the list, adds a missing '#' and drops
// duplicates.
func (o *Options) normalizeExcludeColors() error {
	if len(o.ExcludeColors) == 0 {
		o.ExcludeColors = nil
		return nil
	}
	out := make([]string, 0, len(o.ExcludeColors))
	for _, c := range o.ExcludeColors {
		c = strings.ToLower(strings.TrimSpace(c))
		if !strings.HasPrefix(c, "#") {
			c = "#" + c
		}
		if !color.IsHex(c) {
			return errs.New(errs.ErrCodeInvalidColor, "excluded colour is not #rrggbb: %q", c)
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	o.ExcludeColors = out
	return nil
}

// Seeded reports whether the run is reproducible.
func (o *Options) Seeded() bool { return o.Seed != "" }

// ComposeConfig returns the generator configuration. Only valid after
// ValidateAndSetDefaults.
func (o *Options) ComposeConfig() compose.Config {
	return compose.Config{
		Seed:          o.Seed,
		ShapeCount:    o.ShapeCount,
		Pattern:       o.kind,
		ExcludeColors: o.ExcludeColors,
	}
}

// Canvas returns the requested canvas.
func (o *Options) Canvas() geom.Canvas {
	return geom.Canvas{Width: o.Width, Height: o.Height}
}

// SinkOptions translates the render options for package sink.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{sink.WithScale(o.Scale)}
	if o.Background != "" {
		opts = append(opts, sink.WithBackground(o.Background))
	}
	if o.NoStroke {
		opts = append(opts, sink.WithoutStroke())
	}
	return opts
}

// CompositionKeyOpts returns the cache key options of the compose stage.
func (o *Options) CompositionKeyOpts() cache.CompositionKeyOpts {
	return cache.CompositionKeyOpts{
		Seed:       o.Seed,
		ShapeCount: o.ShapeCount,
		Pattern:    o.Pattern,
		Width:      o.Width,
		Height:     o.Height,
	}
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Scale:      o.Scale,
		Background: o.Background,
		NoStroke:   o.NoStroke,
	}
}
