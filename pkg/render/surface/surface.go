// Package surface defines the drawing surface a composition is painted on.
//
// The generator never rasterises anything itself. It issues fill and geometry
// commands to a [Surface]; package sink provides SVG, PNG and terminal
// implementations and [Recorder] captures the commands for inspection.
package surface

import (
	"github.com/matzehuels/rothko/pkg/core/geom"
)

// Surface accepts the drawing commands of one composition.
//
// FillColor sets the fill used by every following primitive. DrawCircle takes
// the centre and the full diameter. Clear resets a region to the background.
type Surface interface {
	FillColor(hex string)
	DrawRectangle(x, y, w, h float64)
	DrawCircle(x, y, diameter float64)
	DrawTriangle(p1, p2, p3 geom.Point)
	Clear(x, y, w, h float64)
	CanvasSize() geom.Canvas
}

// Factory acquires a fresh surface. Surfaces that hold resources may implement
// io.Closer; the owner closes them when they are replaced.
type Factory func() (Surface, error)
