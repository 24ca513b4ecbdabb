package surface

import (
	"sync"

	"github.com/matzehuels/rothko/pkg/core/geom"
)

// Op names a recorded drawing command.
type Op string

const (
	OpFill      Op = "fill"
	OpRectangle Op = "rect"
	OpCircle    Op = "circle"
	OpTriangle  Op = "triangle"
	OpClear     Op = "clear"
)

// Command is one recorded call. Args holds the numeric arguments in call
// order; triangle vertices are flattened to x1,y1,x2,y2,x3,y3.
type Command struct {
	Op    Op        `json:"op"`
	Color string    `json:"color,omitempty"`
	Args  []float64 `json:"args,omitempty"`
}

// Recorder is a Surface that stores every command it receives. It is safe for
// concurrent use.
type Recorder struct {
	mu       sync.Mutex
	canvas   geom.Canvas
	commands []Command
	queries  int
	closed   bool
}

// NewRecorder returns a Recorder reporting canvas as its size.
func NewRecorder(canvas geom.Canvas) *Recorder {
	return &Recorder{canvas: canvas}
}

func (r *Recorder) record(c Command) {
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
}

func (r *Recorder) FillColor(hex string) { r.record(Command{Op: OpFill, Color: hex}) }

func (r *Recorder) DrawRectangle(x, y, w, h float64) {
	r.record(Command{Op: OpRectangle, Args: []float64{x, y, w, h}})
}

func (r *Recorder) DrawCircle(x, y, diameter float64) {
	r.record(Command{Op: OpCircle, Args: []float64{x, y, diameter}})
}

func (r *Recorder) DrawTriangle(p1, p2, p3 geom.Point) {
	r.record(Command{Op: OpTriangle, Args: []float64{p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y}})
}

func (r *Recorder) Clear(x, y, w, h float64) {
	r.record(Command{Op: OpClear, Args: []float64{x, y, w, h}})
}

// CanvasSize returns the configured canvas and counts the query.
func (r *Recorder) CanvasSize() geom.Canvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	return r.canvas
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// SizeQueries reports how often CanvasSize was called.
func (r *Recorder) SizeQueries() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()
}

// Close marks the recorder disposed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
