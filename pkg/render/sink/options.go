package sink

import (
	"slices"
	"strings"

	"github.com/matzehuels/rothko/pkg/core/color"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// Output formats understood by Render.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists the formats Render accepts.
func Formats() []string { return []string{FormatSVG, FormatPNG, FormatJSON} }

// ParseFormat normalises a format name.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if slices.Contains(Formats(), f) {
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %q (valid: %s)", s, strings.Join(Formats(), ", "))
}

// ParseBackground normalises a background colour to lower-case "#rrggbb".
func ParseBackground(s string) (string, error) {
	if !color.IsHex(s) {
		return "", errs.New(errs.ErrCodeInvalidColor, "background must be #rrggbb: %q", s)
	}
	return strings.ToLower(s), nil
}

// Option configures a sink.
type Option func(*options)

type options struct {
	scale       float64
	background  string
	stroke      string
	strokeWidth float64
}

func defaultOptions() options {
	return options{scale: 1, stroke: "#000000", strokeWidth: 1}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.scale > 0) {
		o.scale = 1
	}
	return o
}

// WithScale multiplies the output resolution (PNG pixels, SVG width/height).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithBackground paints the cleared canvas with hex. The default is
// transparent.
func WithBackground(hex string) Option { return func(o *options) { o.background = hex } }

// WithStroke sets the outline drawn around every shape.
func WithStroke(hex string, width float64) Option {
	return func(o *options) { o.stroke = hex; o.strokeWidth = width }
}

// WithoutStroke disables shape outlines.
func WithoutStroke() Option { return func(o *options) { o.strokeWidth = 0 } }
