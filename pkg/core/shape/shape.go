// Package shape builds the individual shapes of a composition.
//
// A shape is fully determined by its sub-seed, the canvas, and the shape placed
// before it. Position and size come from the sub-seed's hash through package
// quantize; the colour is derived from the same hash for seeded compositions
// and drawn at random otherwise.
package shape

import (
	"strconv"

	"github.com/matzehuels/rothko/pkg/core/color"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	"github.com/matzehuels/rothko/pkg/core/quantize"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// Anti-overlap window. A candidate closer than OverlapWindow to the previous
// shape on an axis is pushed OverlapShift further along that axis.
const (
	OverlapWindow = 100.0
	OverlapShift  = 100.0
)

// Shape is one placed shape. Quads and triangles use Width and Height; circles
// use Diameter. Shapes are values and are never modified after creation.
type Shape struct {
	Seed     string  `json:"seed"`
	Kind     Kind    `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Diameter float64 `json:"diameter,omitempty"`
}

// Position returns the anchor point: the top-left corner of a quad, the
// centre of a circle, the first vertex of a triangle.
func (s Shape) Position() geom.Point {
	return geom.Point{X: s.X, Y: s.Y}
}

// DrawDiameter is the diameter handed to the drawing primitive. It is twice the
// stored Diameter.
func (s Shape) DrawDiameter() float64 {
	return s.Diameter * 2
}

// Triangle returns the vertices (x,y), (x+w,y), (x+w,y+h).
func (s Shape) Triangle() [3]geom.Point {
	return [3]geom.Point{
		{X: s.X, Y: s.Y},
		{X: s.X + s.Width, Y: s.Y},
		{X: s.X + s.Width, Y: s.Y + s.Height},
	}
}

// Factory creates shapes for one canvas.
type Factory struct {
	// Canvas is used as given; callers apply geom.Canvas.OrFallback.
	Canvas geom.Canvas

	// Seeded derives colours from sub-seed hashes. When false colours are
	// drawn from Random.
	Seeded bool

	// Random is the colour source for unseeded compositions. Nil means
	// hashing.Global.
	Random hashing.Source

	// Exclude lists colours random draws re-roll. Empty disables the check.
	Exclude []string
}

// New builds the shape of the given kind for subSeed. prev is the shape placed
// immediately before, or nil for the first shape.
//
// Quads are placed on the whole canvas, circles and triangles on the
// half-canvas grid.
func (f Factory) New(kind Kind, subSeed string, prev *Shape) (Shape, error) {
	if !kind.Valid() {
		return Shape{}, errs.New(errs.ErrCodeInvalidPattern, "unknown pattern: %d", int(kind))
	}

	h := hashing.Hash(subSeed, true)
	pos := Nudge(quantize.CoordinateFromHash(h, f.Canvas.Width, f.Canvas.Height, kind.WholeCanvas()), prev)
	dim := quantize.DimensionFromHash(h, f.Canvas.Width, f.Canvas.Height)

	s := Shape{
		Seed:  subSeed,
		Kind:  kind,
		X:     pos.X,
		Y:     pos.Y,
		Color: f.color(h),
	}
	switch kind {
	case Circle:
		s.Diameter = dim.Diameter
	default:
		s.Width = dim.Width
		s.Height = dim.Height
	}
	return s, nil
}

func (f Factory) color(h int64) string {
	if f.Seeded {
		return color.FromString(strconv.FormatInt(h, 10))
	}
	if len(f.Exclude) > 0 {
		return color.RandomHexExcluding(f.Random, f.Exclude...)
	}
	return color.RandomHex(f.Random)
}

// Nudge applies the anti-overlap rule to candidate p. Each axis is checked
// once against the open window around prev and shifted at most once; the
// shifted value is not checked again.
func Nudge(p geom.Point, prev *Shape) geom.Point {
	if prev == nil {
		return p
	}
	if p.X > prev.X-OverlapWindow && p.X < prev.X+OverlapWindow {
		p.X += OverlapShift
	}
	if p.Y > prev.Y-OverlapWindow && p.Y < prev.Y+OverlapWindow {
		p.Y += OverlapShift
	}
	return p
}
