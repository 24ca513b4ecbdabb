// Package quantize maps shape hashes onto canvas coordinates and bounded sizes.
//
// The canvas is split into a conceptual 3x3 grid. Two single-digit indicators
// taken from the hash pick a band on each axis and a fixed linear formula turns
// band and indicator into a coordinate. The formulas are not meant to describe
// a distribution; they only have to be reproducible.
package quantize

import (
	"strconv"

	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/hashing"
)

// Dimension is the size budget derived from a hash. Width and Height size quads
// and triangles; Diameter sizes circles.
type Dimension struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Diameter float64 `json:"diameter"`
}

// CoordinateFromHash places hash on a canvas of maxHorizontal x maxVertical.
//
// With wholeCanvas the grid spans the full canvas. Otherwise each section is a
// sixth of maxHorizontal on both axes, so placement is confined to roughly the
// upper-left half and the vertical extent ignores maxVertical entirely. Existing
// compositions depend on that coupling.
func CoordinateFromHash(hash int64, maxHorizontal, maxVertical float64, wholeCanvas bool) geom.Point {
	var sectionWidth, sectionHeight float64
	if wholeCanvas {
		sectionWidth = maxHorizontal / 3
		sectionHeight = maxVertical / 3
	} else {
		sectionWidth = maxHorizontal / 2 / 3
		sectionHeight = maxHorizontal / 2 / 3
	}

	h := float64(hash)
	xIndicator := hashing.LastDigit(h + h)
	yIndicator := hashing.LastDigit(float64(h * h))

	return geom.Point{
		X: band(sectionWidth, xIndicator),
		Y: band(sectionHeight, yIndicator),
	}
}

// band resolves an indicator in 0..9 against one axis section.
func band(section float64, indicator int) float64 {
	i := float64(indicator)
	switch {
	case indicator >= 0 && indicator <= 3:
		return section - float64(section-i)
	case indicator > 3 && indicator <= 6:
		return float64(section*2) - i
	default:
		return float64(section*3) - i
	}
}

// DimensionFromHash derives a size from the last three characters of hash in
// base 10. With n the parsed value, width and height start at n*n and the
// diameter at n; each is then divided by 3 until it fits its bound (maxWidth for
// width and diameter, maxHeight for height).
//
// A bound that is not positive cannot be satisfied by division and yields 0 for
// the values it governs.
func DimensionFromHash(hash int64, maxWidth, maxHeight float64) Dimension {
	s := strconv.FormatInt(hash, 10)
	n, err := strconv.Atoi(s[max(len(s)-3, 0):])
	if err != nil {
		n = 0
	}

	side := float64(n * n)
	return Dimension{
		Width:    shrink(side, maxWidth),
		Height:   shrink(side, maxHeight),
		Diameter: shrink(float64(n), maxWidth),
	}
}

func shrink(v, bound float64) float64 {
	if !(bound > 0) {
		return 0
	}
	for v > bound {
		v /= 3
	}
	return v
}
