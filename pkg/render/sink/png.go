package sink

import (
	"bytes"
	"image"
	imgcolor "image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/rothko/pkg/core/color"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/render/surface"
)

// PNG is a Surface backed by a gg raster context.
type PNG struct {
	canvas geom.Canvas
	opts   options
	ctx    *gg.Context
	fill   imgcolor.Color
	stroke imgcolor.Color
}

var _ surface.Surface = (*PNG)(nil)

// NewPNG returns a transparent raster surface for canvas. The image is
// canvas size times the scale option.
func NewPNG(canvas geom.Canvas, opts ...Option) *PNG {
	canvas = canvas.OrFallback()
	o := newOptions(opts)
	w := int(math.Ceil(canvas.Width * o.scale))
	h := int(math.Ceil(canvas.Height * o.scale))

	ctx := gg.NewContext(w, h)
	ctx.Scale(o.scale, o.scale)

	p := &PNG{canvas: canvas, opts: o, ctx: ctx, fill: imgcolor.White, stroke: imgcolor.Black}
	if c, err := color.Parse(o.stroke); err == nil {
		p.stroke = c
	}
	return p
}

func (p *PNG) CanvasSize() geom.Canvas { return p.canvas }

// FillColor sets the fill. An unparseable colour keeps the previous fill.
func (p *PNG) FillColor(hex string) {
	if c, err := color.Parse(hex); err == nil {
		p.fill = c
	}
}

func (p *PNG) DrawRectangle(x, y, w, h float64) {
	p.ctx.DrawRectangle(x, y, w, h)
	p.paint()
}

func (p *PNG) DrawCircle(x, y, diameter float64) {
	p.ctx.DrawCircle(x, y, diameter/2)
	p.paint()
}

func (p *PNG) DrawTriangle(p1, p2, p3 geom.Point) {
	p.ctx.MoveTo(p1.X, p1.Y)
	p.ctx.LineTo(p2.X, p2.Y)
	p.ctx.LineTo(p3.X, p3.Y)
	p.ctx.ClosePath()
	p.paint()
}

func (p *PNG) paint() {
	p.ctx.SetColor(p.fill)
	if p.opts.strokeWidth <= 0 {
		p.ctx.Fill()
		return
	}
	p.ctx.FillPreserve()
	p.ctx.SetColor(p.stroke)
	p.ctx.SetLineWidth(p.opts.strokeWidth)
	p.ctx.Stroke()
}

// Clear resets a region to the background, or to transparent without one.
func (p *PNG) Clear(x, y, w, h float64) {
	var bg imgcolor.Color = imgcolor.Transparent
	if p.opts.background != "" {
		if c, err := color.Parse(p.opts.background); err == nil {
			bg = c
		}
	}
	s := p.opts.scale
	r := image.Rect(int(math.Floor(x*s)), int(math.Floor(y*s)), int(math.Ceil((x+w)*s)), int(math.Ceil((y+h)*s)))
	if img, ok := p.ctx.Image().(draw.Image); ok {
		draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(bg), image.Point{}, draw.Src)
	}
}

// Image returns the raster.
func (p *PNG) Image() image.Image { return p.ctx.Image() }

// Bytes encodes the raster as PNG.
func (p *PNG) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.ctx.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
