package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/render/surface"
)

// DefaultTerminalColumns is the grid width used when NewTerminal gets a
// non-positive column count.
const DefaultTerminalColumns = 40

// Terminal is a Surface that samples the canvas onto a character grid. A cell
// takes the fill of the last primitive covering its centre. Each cell prints
// as two columns so square canvases look square.
type Terminal struct {
	canvas     geom.Canvas
	cols, rows int
	fill       string
	cells      []string
}

var _ surface.Surface = (*Terminal)(nil)

// NewTerminal returns a grid cols cells wide; the row count follows the
// canvas aspect ratio.
func NewTerminal(canvas geom.Canvas, cols int) *Terminal {
	canvas = canvas.OrFallback()
	if cols <= 0 {
		cols = DefaultTerminalColumns
	}
	rows := max(1, int(math.Round(float64(cols)*canvas.Height/canvas.Width)))
	return &Terminal{
		canvas: canvas,
		cols:   cols,
		rows:   rows,
		cells:  make([]string, cols*rows),
	}
}

func (t *Terminal) CanvasSize() geom.Canvas { return t.canvas }

func (t *Terminal) FillColor(hex string) { t.fill = hex }

// Size returns the grid dimensions.
func (t *Terminal) Size() (cols, rows int) { return t.cols, t.rows }

// Cell returns the colour of a cell, or "" when nothing covers it.
func (t *Terminal) Cell(col, row int) string {
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return ""
	}
	return t.cells[row*t.cols+col]
}

func (t *Terminal) DrawRectangle(x, y, w, h float64) {
	t.paint(t.fill, func(p geom.Point) bool {
		return p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h
	})
}

func (t *Terminal) DrawCircle(x, y, diameter float64) {
	r := diameter / 2
	t.paint(t.fill, func(p geom.Point) bool {
		dx, dy := p.X-x, p.Y-y
		return dx*dx+dy*dy <= r*r
	})
}

func (t *Terminal) DrawTriangle(p1, p2, p3 geom.Point) {
	t.paint(t.fill, func(p geom.Point) bool {
		d1 := cross(p, p1, p2)
		d2 := cross(p, p2, p3)
		d3 := cross(p, p3, p1)
		neg := d1 < 0 || d2 < 0 || d3 < 0
		pos := d1 > 0 || d2 > 0 || d3 > 0
		return !(neg && pos)
	})
}

func (t *Terminal) Clear(x, y, w, h float64) {
	t.paint("", func(p geom.Point) bool {
		return p.X >= x && p.X <= x+w && p.Y >= y && p.Y <= y+h
	})
}

func (t *Terminal) paint(hex string, covers func(geom.Point) bool) {
	cw := t.canvas.Width / float64(t.cols)
	ch := t.canvas.Height / float64(t.rows)
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			centre := geom.Point{X: (float64(col) + 0.5) * cw, Y: (float64(row) + 0.5) * ch}
			if covers(centre) {
				t.cells[row*t.cols+col] = hex
			}
		}
	}
}

func cross(p, a, b geom.Point) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

// String renders the grid with lipgloss background colours, one line per row.
func (t *Terminal) String() string {
	styles := make(map[string]lipgloss.Style)
	var sb strings.Builder
	for row := 0; row < t.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < t.cols; col++ {
			hex := t.cells[row*t.cols+col]
			if hex == "" {
				sb.WriteString("  ")
				continue
			}
			st, ok := styles[hex]
			if !ok {
				st = lipgloss.NewStyle().Background(lipgloss.Color(hex))
				styles[hex] = st
			}
			sb.WriteString(st.Render("  "))
		}
	}
	return sb.String()
}
