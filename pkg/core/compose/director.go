package compose

import (
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/render/surface"
)

// Director owns a drawing surface and paints one composition per Draw call.
//
// The surface is kept while the configuration stays the same. A different
// configuration disposes the current surface and acquires a new one from the
// factory, so shapes of two patterns never share a surface. The canvas size is
// queried once per acquired surface.
type Director struct {
	factory surface.Factory
	random  hashing.Source
	logger  *log.Logger

	mu      sync.Mutex
	surface surface.Surface
	canvas  geom.Canvas
	last    Config
	state   State
	current *Composition
}

// DirectorOption configures a Director.
type DirectorOption func(*Director)

// WithRandom sets the randomness used for unseeded configurations.
func WithRandom(src hashing.Source) DirectorOption {
	return func(d *Director) { d.random = src }
}

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(l *log.Logger) DirectorOption {
	return func(d *Director) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDirector returns a Director drawing on surfaces from factory. A nil
// factory is a configuration error.
func NewDirector(factory surface.Factory, opts ...DirectorOption) (*Director, error) {
	if factory == nil {
		return nil, errs.New(errs.ErrCodeConfiguration, "no drawing surface factory supplied")
	}
	d := &Director{
		factory: factory,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Draw generates the composition for cfg and paints it. The previous
// composition is discarded.
func (d *Director) Draw(cfg Config) (*Composition, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if d.surface == nil || !cfg.Equal(d.last) {
		if err := d.replaceSurface(); err != nil {
			return nil, err
		}
		d.last = cfg
		d.last.ExcludeColors = slices.Clone(cfg.ExcludeColors)
	}

	d.state = Idle
	d.current = nil
	c, err := generate(cfg, d.canvas, d.random, func(s State) { d.state = s })
	if err != nil {
		return nil, err
	}
	if err := Render(c, d.surface); err != nil {
		return nil, err
	}
	d.current = c

	d.logger.Debug("composition drawn",
		"pattern", c.Pattern,
		"seeded", c.Seeded,
		"root", c.RootHash,
		"shapes", len(c.Shapes))
	return c, nil
}

func (d *Director) replaceSurface() error {
	if err := d.dispose(); err != nil {
		d.logger.Warn("dispose surface", "error", err)
	}

	s, err := d.factory()
	if err != nil {
		return errs.Wrap(errs.ErrCodeConfiguration, err, "acquire drawing surface")
	}
	if s == nil {
		return errs.New(errs.ErrCodeConfiguration, "surface factory returned no surface")
	}
	d.surface = s
	d.canvas = s.CanvasSize()
	d.logger.Debug("surface acquired", "width", d.canvas.Width, "height", d.canvas.Height)
	return nil
}

func (d *Director) dispose() error {
	s := d.surface
	d.surface = nil
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// State reports the last state reached by the current or most recent pass.
func (d *Director) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Composition returns the last completed composition, or nil.
func (d *Director) Composition() *Composition {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Surface returns the surface currently held, or nil.
func (d *Director) Surface() surface.Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surface
}

// Close disposes the held surface.
func (d *Director) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Idle
	d.current = nil
	return d.dispose()
}
