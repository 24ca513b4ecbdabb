// Package compose turns a seed into an ordered sequence of shapes and paints it
// on a drawing surface.
//
// A pass runs through fixed steps. The root hash comes from the seed (or from
// randomness when there is none); the shape count comes from the
// configuration or the root hash; the root hash is split into one sub-seed per
// shape; and every sub-seed becomes a shape, nudged away from its predecessor.
// Identical seeded configurations on identical canvases always produce
// identical compositions.
package compose

import (
	"math"

	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	"github.com/matzehuels/rothko/pkg/core/seed"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/render/surface"
)

// Composition is the result of one pass. It is replaced, never modified, by
// the next pass.
type Composition struct {
	Seed           string        `json:"seed,omitempty"`
	Seeded         bool          `json:"seeded"`
	RootHash       int64         `json:"root_hash"`
	Pattern        shape.Kind    `json:"pattern"`
	Canvas         geom.Canvas   `json:"canvas"`
	DigitsPerShape int           `json:"digits_per_shape"`
	SubSeeds       []string      `json:"sub_seeds"`
	Shapes         []shape.Shape `json:"shapes"`
}

// Generate runs one pass for cfg on canvas. Non-positive canvas dimensions are
// replaced by the 400px fallback. src supplies randomness for unseeded
// configurations (hashing.Global when nil) and is not used otherwise.
func Generate(cfg Config, canvas geom.Canvas, src hashing.Source) (*Composition, error) {
	return generate(cfg, canvas, src, nil)
}

func generate(cfg Config, canvas geom.Canvas, src hashing.Source, step func(State)) (*Composition, error) {
	if step == nil {
		step = func(State) {}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	canvas = canvas.OrFallback()

	root := RootHash(cfg.Seed, src)
	step(RootHashResolved)

	count := ShapeCount(cfg.ShapeCount, root)
	step(ShapeCountResolved)

	// A root ending in 0 would give empty sub-seeds; one digit per shape keeps them hashable.
	digits := max(1, hashing.LastDigit(float64(root)))
	subSeeds, err := seed.SubSeeds(hashing.FormatNumber(float64(root)), count, digits)
	if err != nil {
		return nil, err
	}
	step(Generating)

	f := shape.Factory{Canvas: canvas, Seeded: cfg.Seeded(), Random: src, Exclude: cfg.ExcludeColors}
	shapes := make([]shape.Shape, 0, len(subSeeds))
	var prev *shape.Shape
	for _, sub := range subSeeds {
		s, err := f.New(cfg.Pattern, sub, prev)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
		prev = &shapes[len(shapes)-1]
	}
	step(Composed)

	return &Composition{
		Seed:           cfg.Seed,
		Seeded:         cfg.Seeded(),
		RootHash:       root,
		Pattern:        cfg.Pattern,
		Canvas:         canvas,
		DigitsPerShape: digits,
		SubSeeds:       subSeeds,
		Shapes:         shapes,
	}, nil
}

// RootHash resolves the root hash of a pass: the absolute hash of seed, or,
// for an empty seed, the fractional digits of a random draw from src.
func RootHash(seedStr string, src hashing.Source) int64 {
	if seedStr != "" {
		return hashing.Hash(seedStr, true)
	}
	cfg := hashing.DefaultRandomConfig()
	cfg.Absolute = true
	cfg.RemoveDouble = true
	return int64(hashing.RandomNumber(src, cfg))
}

// ShapeCount resolves the number of shapes. A positive explicit count wins;
// otherwise half the root hash's last digit, rounded up. The result is never
// below 1.
func ShapeCount(explicit int, root int64) int {
	n := explicit
	if n <= 0 {
		n = int(math.Ceil(float64(hashing.LastDigit(float64(root))) / 2))
	}
	return max(n, 1)
}

// Render clears the canvas of s and paints c's shapes in order.
func Render(c *Composition, s surface.Surface) error {
	if s == nil {
		return errs.New(errs.ErrCodeConfiguration, "no drawing surface supplied")
	}
	if c == nil {
		return errs.New(errs.ErrCodeInvalidInput, "no composition to render")
	}

	s.Clear(0, 0, c.Canvas.Width, c.Canvas.Height)
	for _, sh := range c.Shapes {
		s.FillColor(sh.Color)
		switch sh.Kind {
		case shape.Quad:
			s.DrawRectangle(sh.X, sh.Y, sh.Width, sh.Height)
		case shape.Circle:
			s.DrawCircle(sh.X, sh.Y, sh.DrawDiameter())
		case shape.Triangle:
			v := sh.Triangle()
			s.DrawTriangle(v[0], v[1], v[2])
		default:
			return errs.New(errs.ErrCodeInvalidPattern, "unknown pattern: %d", int(sh.Kind))
		}
	}
	return nil
}
