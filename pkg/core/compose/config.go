package compose

import (
	"slices"

	"github.com/matzehuels/rothko/pkg/core/color"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// Config selects one composition.
type Config struct {
	// Seed makes the composition reproducible. The empty string means no
	// seed: root hash and colours are drawn at random.
	Seed string `json:"seed,omitempty"`

	// ShapeCount fixes the number of shapes. Zero derives it from the root
	// hash.
	ShapeCount int `json:"shape_count,omitempty"`

	// Pattern is the shape variant every shape is built from.
	Pattern shape.Kind `json:"pattern"`

	// ExcludeColors lists "#rrggbb" colours that random draws avoid. Seeded
	// compositions derive their colours from the hash and ignore it.
	ExcludeColors []string `json:"exclude_colors,omitempty"`
}

// Seeded reports whether the configuration carries a seed.
func (c Config) Seeded() bool { return c.Seed != "" }

// Equal reports whether c and o select the same composition.
func (c Config) Equal(o Config) bool {
	return c.Seed == o.Seed &&
		c.ShapeCount == o.ShapeCount &&
		c.Pattern == o.Pattern &&
		slices.Equal(c.ExcludeColors, o.ExcludeColors)
}

// Validate rejects negative shape counts, unknown patterns and malformed
// excluded colours.
func (c Config) Validate() error {
	if c.ShapeCount < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "shape count cannot be negative: %d", c.ShapeCount)
	}
	if !c.Pattern.Valid() {
		return errs.New(errs.ErrCodeInvalidPattern, "unknown pattern: %d", int(c.Pattern))
	}
	for _, hex := range c.ExcludeColors {
		if !color.IsHex(hex) {
			return errs.New(errs.ErrCodeInvalidColor, "excluded colour is not #rrggbb: %q", hex)
		}
	}
	return nil
}
