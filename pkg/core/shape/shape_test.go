package shape

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/rothko/pkg/core/color"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

var canvas400 = geom.Canvas{Width: 400, Height: 400}

func TestFactoryNew(t *testing.T) {
	f := Factory{Canvas: canvas400, Seeded: true}

	tests := []struct {
		name string
		kind Kind
		seed string
		want Shape
	}{
		{
			name: "quad",
			kind: Quad,
			seed: "35564983",
			want: Shape{Seed: "35564983", Kind: Quad, X: 392, Y: 1, Color: "#30775c",
				Width: 398.519890260631, Height: 398.519890260631},
		},
		{
			name: "circle",
			kind: Circle,
			seed: "35564983",
			want: Shape{Seed: "35564983", Kind: Circle, X: 192, Y: 1, Color: "#30775c",
				Diameter: 179.66666666666666},
		},
		{
			name: "triangle",
			kind: Triangle,
			seed: "6498355649",
			want: Shape{Seed: "6498355649", Kind: Triangle, X: 2, Y: 0, Color: "#6e4179",
				Width: 149.0813900320073, Height: 149.0813900320073},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.New(tt.kind, tt.seed, nil)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("New() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFactoryNewNudgesAgainstPrevious(t *testing.T) {
	f := Factory{Canvas: canvas400, Seeded: true}

	first, err := f.New(Quad, "35564983", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.New(Quad, "556498355", &first)
	if err != nil {
		t.Fatal(err)
	}
	if second.X != 492 || second.Y != 100 {
		t.Errorf("second shape at (%v, %v), want (492, 100)", second.X, second.Y)
	}
	if second.Color != "#1c35f5" {
		t.Errorf("second shape color = %q, want #1c35f5", second.Color)
	}
}

func TestFactoryNewRandomColor(t *testing.T) {
	f := Factory{Canvas: canvas400, Random: hashing.NewSequence(0.5)}
	s, err := f.New(Circle, "35564983", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Color != "#7fffff" {
		t.Errorf("Color = %q, want #7fffff", s.Color)
	}
	if s.X != 192 || s.Y != 1 {
		t.Errorf("geometry must not depend on the colour source: got (%v, %v)", s.X, s.Y)
	}

	s, err = Factory{Canvas: canvas400}.New(Quad, "1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !color.IsHex(s.Color) {
		t.Errorf("Color = %q is not a hex colour", s.Color)
	}
}

func TestFactoryNewExcludedColor(t *testing.T) {
	tests := []struct {
		name    string
		exclude []string
		want    string
	}{
		{"no list", nil, "#7fffff"},
		{"first draw excluded", []string{"#7FFFFF"}, "#3fffff"},
		{"unrelated list", []string{"#000000"}, "#7fffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Factory{Canvas: canvas400, Random: hashing.NewSequence(0.5, 0.25), Exclude: tt.exclude}
			s, err := f.New(Quad, "1", nil)
			if err != nil {
				t.Fatal(err)
			}
			if s.Color != tt.want {
				t.Errorf("Color = %q, want %q", s.Color, tt.want)
			}
		})
	}

	seeded := Factory{Canvas: canvas400, Seeded: true, Exclude: []string{"#000061"}}
	s, err := seeded.New(Quad, "a", nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := color.FromString(s.Seed); s.Color != want {
		t.Errorf("seeded Color = %q, want hash colour %q", s.Color, want)
	}
}

func TestFactoryNewInvalidKind(t *testing.T) {
	_, err := Factory{Canvas: canvas400}.New(Kind(7), "1", nil)
	if !errs.Is(err, errs.ErrCodeInvalidPattern) {
		t.Errorf("New(Kind(7)) error = %v, want %s", err, errs.ErrCodeInvalidPattern)
	}
}

func TestNudge(t *testing.T) {
	prev := &Shape{X: 500, Y: 500}

	tests := []struct {
		name string
		in   geom.Point
		want geom.Point
	}{
		{"both axes", geom.Point{X: 520, Y: 510}, geom.Point{X: 620, Y: 610}},
		{"x only", geom.Point{X: 450, Y: 700}, geom.Point{X: 550, Y: 700}},
		{"y only", geom.Point{X: 100, Y: 401}, geom.Point{X: 100, Y: 501}},
		{"window is open", geom.Point{X: 400, Y: 600}, geom.Point{X: 400, Y: 600}},
		{"shifted once inside window", geom.Point{X: 420, Y: 500}, geom.Point{X: 520, Y: 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nudge(tt.in, prev); got != tt.want {
				t.Errorf("Nudge(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}

	if got := Nudge(geom.Point{X: 1, Y: 2}, nil); got != (geom.Point{X: 1, Y: 2}) {
		t.Errorf("Nudge(nil prev) = %+v", got)
	}
}

func TestShapeGeometry(t *testing.T) {
	s := Shape{Kind: Triangle, X: 10, Y: 20, Width: 30, Height: 40}
	want := [3]geom.Point{{X: 10, Y: 20}, {X: 40, Y: 20}, {X: 40, Y: 60}}
	if got := s.Triangle(); got != want {
		t.Errorf("Triangle() = %v, want %v", got, want)
	}

	c := Shape{Kind: Circle, Diameter: 12.5}
	if got := c.DrawDiameter(); got != 25 {
		t.Errorf("DrawDiameter() = %v, want 25", got)
	}
	if got := s.Position(); got != (geom.Point{X: 10, Y: 20}) {
		t.Errorf("Position() = %+v", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"quad", Quad, false},
		{"Rect", Quad, false},
		{" circle ", Circle, false},
		{"ellipse", Circle, false},
		{"TRIANGLE", Triangle, false},
		{"hexagon", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidPattern) {
			t.Errorf("ParseKind(%q) error code = %s", tt.in, errs.GetCode(err))
		}
	}
}

func TestKindString(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), parsed, err)
		}
	}
	if got := Kind(-1).String(); got != "unknown" {
		t.Errorf("Kind(-1).String() = %q", got)
	}
}

func TestShapeJSON(t *testing.T) {
	s := Shape{Seed: "7", Kind: Circle, X: 1, Y: 2, Color: "#000061", Diameter: 3}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"seed":"7","kind":"circle","x":1,"y":2,"color":"#000061","diameter":3}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back Shape
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("Unmarshal() = %+v, want %+v", back, s)
	}

	if _, err := json.Marshal(Shape{Kind: Kind(9)}); err == nil {
		t.Error("Marshal() with invalid kind should fail")
	}
}

func TestKindWholeCanvas(t *testing.T) {
	for _, k := range Kinds() {
		if got, want := k.WholeCanvas(), k == Quad; got != want {
			t.Errorf("%s.WholeCanvas() = %v, want %v", k, got, want)
		}
	}
}
