package sink

import (
	"math"

	"github.com/matzehuels/rothko/pkg/core/compose"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// Render paints c in the given format and returns the encoded output.
func Render(c *compose.Composition, format string, opts ...Option) ([]byte, error) {
	if c == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no composition to render")
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatSVG:
		s := NewSVG(c.Canvas, opts...)
		if err := compose.Render(c, s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil
	case FormatPNG:
		canvas := c.Canvas.OrFallback()
		if err := errs.ValidateRaster(canvas.Width, canvas.Height, newOptions(opts).scale); err != nil {
			return nil, err
		}
		p := NewPNG(canvas, opts...)
		if err := compose.Render(c, p); err != nil {
			return nil, err
		}
		data, err := p.Bytes()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode png")
		}
		return data, nil
	default:
		return RenderJSON(c)
	}
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

func roundTo(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}
