package shape

import (
	"strings"

	errs "github.com/matzehuels/rothko/pkg/errors"
)

// Kind selects the shape variant a composition is built from.
type Kind int

const (
	Quad Kind = iota
	Circle
	Triangle
)

var kindNames = [...]string{
	Quad:     "quad",
	Circle:   "circle",
	Triangle: "triangle",
}

// Kinds returns every variant in declaration order.
func Kinds() []Kind {
	return []Kind{Quad, Circle, Triangle}
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k is one of the declared variants.
func (k Kind) Valid() bool {
	return k >= Quad && k <= Triangle
}

// WholeCanvas reports whether the kind is placed on the whole canvas rather
// than its top-left half.
func (k Kind) WholeCanvas() bool { return k == Quad }

// ParseKind resolves a case-insensitive variant name. "rect" and "rectangle"
// are accepted for Quad, "ellipse" for Circle.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quad", "rect", "rectangle":
		return Quad, nil
	case "circle", "ellipse":
		return Circle, nil
	case "triangle":
		return Triangle, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidPattern, "unknown pattern: %q (valid: quad, circle, triangle)", s)
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errs.New(errs.ErrCodeInvalidPattern, "unknown pattern: %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a name accepted by ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
