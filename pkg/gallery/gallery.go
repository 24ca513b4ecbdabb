// Package gallery stores named, seeded compositions so they can be listed and
// re-rendered later.
//
// Only the inputs of a composition are stored. Seeded generation is
// deterministic, so the shapes are rebuilt on demand. Random compositions
// cannot be saved because they cannot be reproduced.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: one JSON file per entry, for the CLI
//   - [MongoStore]: MongoDB collection, for shared deployments
package gallery

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/matzehuels/rothko/pkg/core/compose"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// MaxNameLength bounds entry names.
const MaxNameLength = 128

// Entry is a saved composition.
type Entry struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Seed       string    `json:"seed" bson:"seed"`
	ShapeCount int       `json:"shape_count,omitempty" bson:"shape_count,omitempty"`
	Pattern    string    `json:"pattern" bson:"pattern"`
	Width      float64   `json:"width" bson:"width"`
	Height     float64   `json:"height" bson:"height"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// NewEntry validates the inputs and returns an entry with a fresh ID. An
// empty name defaults to the seed, cut to MaxNameLength bytes; non-positive canvas dimensions fall back
// to 400px.
func NewEntry(name, seed string, shapeCount int, pattern string, canvas geom.Canvas) (*Entry, error) {
	if seed == "" {
		return nil, errs.New(errs.ErrCodeInvalidSeed, "random compositions cannot be saved: a seed is required")
	}
	if err := errs.ValidateShapeCount(shapeCount); err != nil {
		return nil, err
	}
	if err := errs.ValidateCanvas(canvas.Width, canvas.Height); err != nil {
		return nil, err
	}
	kind, err := shape.ParseKind(pattern)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName(seed)
	}
	if len(name) > MaxNameLength {
		return nil, errs.New(errs.ErrCodeInvalidInput, "name too long (max %d characters)", MaxNameLength)
	}

	canvas = canvas.OrFallback()
	return &Entry{
		ID:         uuid.NewString(),
		Name:       name,
		Seed:       seed,
		ShapeCount: shapeCount,
		Pattern:    kind.String(),
		Width:      canvas.Width,
		Height:     canvas.Height,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Config returns the generator configuration of the entry.
func (e *Entry) Config() (compose.Config, error) {
	kind, err := shape.ParseKind(e.Pattern)
	if err != nil {
		return compose.Config{}, err
	}
	return compose.Config{Seed: e.Seed, ShapeCount: e.ShapeCount, Pattern: kind}, nil
}

// Canvas returns the canvas of the entry.
func (e *Entry) Canvas() geom.Canvas {
	return geom.Canvas{Width: e.Width, Height: e.Height}
}

// Store persists entries.
type Store interface {
	// Save inserts or replaces an entry.
	Save(ctx context.Context, e *Entry) error

	// Get returns the entry with id, or an ErrCodeNotFound error.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns up to limit entries, newest first. A non-positive limit
	// means DefaultListLimit.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Delete removes an entry, or returns an ErrCodeNotFound error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// ValidID reports whether id has the form produced by NewEntry.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "gallery entry not found: %s", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// defaultName cuts seed to MaxNameLength bytes without splitting a rune.
func defaultName(seed string) string {
	if len(seed) <= MaxNameLength {
		return seed
	}
	n := MaxNameLength
	for n > 0 && !utf8.RuneStart(seed[n]) {
		n--
	}
	return seed[:n]
}
