package errors

import (
	"unicode"
	"unicode/utf8"
)

// Limits applied to externally supplied composition parameters.
const (
	// MaxSeedLength bounds seeds received over HTTP. Local callers and the
	// generator accept any length.
	MaxSeedLength = 1024

	// MaxShapeCount bounds explicit shape counts.
	MaxShapeCount = 500

	// MaxCanvasSide bounds canvas width and height in pixels.
	MaxCanvasSide = 8192

	// MaxRasterPixels bounds the scaled pixel area of a raster image, 64 MiB
	// of RGBA.
	MaxRasterPixels = 4096 * 4096
)

// ValidateSeed validates a seed string received over the network.
//
// The validation rules are intentionally conservative:
//   - Must be valid UTF-8
//   - No control characters
//   - Maximum length of MaxSeedLength bytes
//
// An empty seed is valid and means "random composition".
func ValidateSeed(seed string) error {
	if len(seed) > MaxSeedLength {
		return New(ErrCodeInvalidSeed, "seed too long (max %d characters)", MaxSeedLength)
	}
	if !utf8.ValidString(seed) {
		return New(ErrCodeInvalidSeed, "seed is not valid UTF-8")
	}
	for _, r := range seed {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSeed, "seed contains invalid control characters")
		}
	}
	return nil
}

// ValidateShapeCount checks an explicit shape count. Zero means "derive from the hash".
func ValidateShapeCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "shape count cannot be negative: %d", n)
	}
	if n > MaxShapeCount {
		return New(ErrCodeInvalidInput, "shape count too large (max %d): %d", MaxShapeCount, n)
	}
	return nil
}

// ValidateCanvas checks requested canvas dimensions. Zero values are allowed and
// are replaced by the fallback canvas downstream.
func ValidateCanvas(width, height float64) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidCanvas, "canvas dimensions cannot be negative: %vx%v", width, height)
	}
	if width > MaxCanvasSide || height > MaxCanvasSide {
		return New(ErrCodeInvalidCanvas, "canvas too large (max %d px per side): %vx%v", MaxCanvasSide, width, height)
	}
	return nil
}

// ValidateRaster checks that a width×height canvas drawn at scale fits in
// MaxRasterPixels.
func ValidateRaster(width, height, scale float64) error {
	if px := (width * scale) * (height * scale); px > MaxRasterPixels {
		return New(ErrCodeInvalidCanvas, "raster too large (max %d pixels): %vx%v at scale %v is %.0f pixels",
			MaxRasterPixels, width, height, scale, px)
	}
	return nil
}
