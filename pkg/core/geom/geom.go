// Package geom holds the small geometry types shared by the generator and the
// drawing surfaces.
package geom

// Fallback canvas dimensions, used when a surface reports an unusable size.
const (
	FallbackWidth  = 400.0
	FallbackHeight = 400.0
)

// Point is a position in device-independent pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Canvas is the drawable area of one composition.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OrFallback replaces each non-positive dimension with the 400px fallback.
// Dimensions are corrected independently.
func (c Canvas) OrFallback() Canvas {
	if !(c.Width > 0) {
		c.Width = FallbackWidth
	}
	if !(c.Height > 0) {
		c.Height = FallbackHeight
	}
	return c
}

// Within reports whether p lies inside the canvas bounds (edges inclusive).
func (c Canvas) Within(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= c.Width && p.Y <= c.Height
}
