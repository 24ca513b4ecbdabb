// Package color derives the fill colours of shapes.
//
// Seeded compositions take every colour from the hash of a string; random
// compositions draw from a Source. Both produce "#rrggbb" strings.
package color

import (
	imgcolor "image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/rothko/pkg/core/hashing"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

// maxRGB is the largest value RandomHex scales a draw to. The upper bound is
// exclusive, so #ffffff is never produced.
const maxRGB = 16777215

// MaxRerolls bounds RandomHexExcluding.
const MaxRerolls = 16

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// DefaultExcluded lists colours that vanish against common backgrounds.
var DefaultExcluded = []string{"#ffffff", "#000000", "#f5f5f5", "#133317"}

// FromString returns '#' followed by the first six hex digits of s's absolute
// hash. Hashes with fewer than six hex digits are left-padded with zeros, so
// FromString("a") is "#000061".
func FromString(s string) string {
	return "#" + hex6(hashing.Hash(s, true))
}

// RandomHex draws a colour uniformly from src (Global when nil).
func RandomHex(src hashing.Source) string {
	if src == nil {
		src = hashing.Global()
	}
	return "#" + hex6(int64(math.Floor(src.Float64()*maxRGB)))
}

// RandomHexExcluding draws like RandomHex but re-rolls colours found in
// excluded, up to MaxRerolls times. The last draw is returned if every attempt
// hits the list. A nil list means DefaultExcluded.
func RandomHexExcluding(src hashing.Source, excluded ...string) string {
	if excluded == nil {
		excluded = DefaultExcluded
	}
	c := RandomHex(src)
	for i := 0; i < MaxRerolls && contains(excluded, c); i++ {
		c = RandomHex(src)
	}
	return c
}

// IsHex reports whether s is '#' followed by exactly six hex digits.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// Parse converts a "#rrggbb" string into an opaque RGBA colour.
func Parse(s string) (imgcolor.RGBA, error) {
	if !IsHex(s) {
		return imgcolor.RGBA{}, errs.New(errs.ErrCodeInvalidColor, "not a hex colour: %q", s)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return imgcolor.RGBA{}, errs.Wrap(errs.ErrCodeInvalidColor, err, "parse %q", s)
	}
	r, g, b := c.RGB255()
	return imgcolor.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func hex6(v int64) string {
	s := strconv.FormatInt(v, 16)
	if len(s) < 6 {
		s = strings.Repeat("0", 6-len(s)) + s
	}
	return s[:6]
}

func contains(list []string, c string) bool {
	for _, e := range list {
		if strings.EqualFold(e, c) {
			return true
		}
	}
	return false
}
