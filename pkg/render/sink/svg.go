package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/render/surface"
)

// SVG is a Surface that collects SVG elements.
type SVG struct {
	canvas   geom.Canvas
	opts     options
	fill     string
	elements []string
}

var _ surface.Surface = (*SVG)(nil)

// NewSVG returns an empty SVG surface for canvas.
func NewSVG(canvas geom.Canvas, opts ...Option) *SVG {
	return &SVG{canvas: canvas.OrFallback(), opts: newOptions(opts), fill: "#ffffff"}
}

func (s *SVG) CanvasSize() geom.Canvas { return s.canvas }

func (s *SVG) FillColor(hex string) { s.fill = hex }

func (s *SVG) DrawRectangle(x, y, w, h float64) {
	s.add(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"%s/>`, num(x), num(y), num(w), num(h), s.paint()))
}

func (s *SVG) DrawCircle(x, y, diameter float64) {
	s.add(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"%s/>`, num(x), num(y), num(diameter/2), s.paint()))
}

func (s *SVG) DrawTriangle(p1, p2, p3 geom.Point) {
	s.add(fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s"%s/>`,
		num(p1.X), num(p1.Y), num(p2.X), num(p2.Y), num(p3.X), num(p3.Y), s.paint()))
}

// Clear drops everything drawn so far when the region covers the whole
// canvas; a partial region is painted over with the background.
func (s *SVG) Clear(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= s.canvas.Width && y+h >= s.canvas.Height {
		s.elements = s.elements[:0]
		return
	}
	bg := s.opts.background
	if bg == "" {
		bg = "#ffffff"
	}
	s.add(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`, num(x), num(y), num(w), num(h), bg))
}

func (s *SVG) add(el string) { s.elements = append(s.elements, el) }

func (s *SVG) paint() string {
	if s.opts.strokeWidth <= 0 {
		return fmt.Sprintf(` fill="%s"`, s.fill)
	}
	return fmt.Sprintf(` fill="%s" stroke="%s" stroke-width="%s"`, s.fill, s.opts.stroke, num(s.opts.strokeWidth))
}

// Bytes serialises the document.
func (s *SVG) Bytes() []byte {
	w, h := s.canvas.Width, s.canvas.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(w), num(h), num(w*s.opts.scale), num(h*s.opts.scale))
	if s.opts.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.opts.background)
	}
	for _, el := range s.elements {
		buf.WriteString("  ")
		buf.WriteString(el)
		buf.WriteByte('\n')
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// num formats coordinates with at most three decimals.
func num(f float64) string {
	r := roundTo(f, 3)
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
