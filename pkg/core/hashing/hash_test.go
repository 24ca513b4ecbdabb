package hashing

import (
	"math"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		absolute bool
		want     int64
	}{
		{"empty", "", false, 0},
		{"empty absolute", "", true, 0},
		{"single char", "a", false, 97},
		{"test", "test", false, 3556498},
		{"hello", "hello", false, 99162322},
		{"negative", "Rothko", false, -1841306955},
		{"negative absolute", "Rothko", true, 1841306955},
		{"spaces", "Mark Rothko", false, -113501368},
		{"latin-1", "é", false, 233},
		{"surrogate pair", "😀", false, 1772899},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hash(tt.input, tt.absolute); got != tt.want {
				t.Errorf("Hash(%q, %v) = %d, want %d", tt.input, tt.absolute, got, tt.want)
			}
		})
	}
}

func TestHashStable(t *testing.T) {
	for _, s := range []string{"test0", "test1", "test2", "No. 61 (Rust and Blue)", ""} {
		first := Hash(s, false)
		for i := 0; i < 5; i++ {
			if got := Hash(s, false); got != first {
				t.Fatalf("Hash(%q) changed between calls: %d then %d", s, first, got)
			}
		}
	}
}

func TestHashRange(t *testing.T) {
	inputs := []string{"", "a", "Rothko", "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", "No. 61 (Rust and Blue)"}
	for _, s := range inputs {
		h := Hash(s, false)
		if h < math.MinInt32 || h > math.MaxInt32 {
			t.Errorf("Hash(%q) = %d, outside the 32-bit range", s, h)
		}
		if a := Hash(s, true); a < 0 {
			t.Errorf("Hash(%q, true) = %d, want non-negative", s, a)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{3556498, "3556498"},
		{-5, "-5"},
		{12.5, "12.5"},
		{0.1, "0.1"},
		{3556498.0 * 3556498.0, "12648678024004"},
		// Larger than 2^53: printed with the shortest round-trip digits.
		{1292940571.0 * 1292940571.0, "1671695320137806000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLastDigits(t *testing.T) {
	tests := []struct {
		name  string
		n     float64
		count int
		want  int
	}{
		{"nine digits", 123456789, 1, 9},
		{"three digits", 123, 1, 3},
		{"one digit", 1, 1, 1},
		{"trailing zero", 100, 1, 0},
		{"three of five", 12345, 3, 345},
		{"whole string", 12345, 5, 12345},
		{"count too large", 123, 10, 3},
		{"count zero", 987, 0, 7},
		{"count negative", 987, -2, 7},
		{"negative single", -5, 1, 5},
		{"negative includes sign", -5, 2, -5},
		{"fraction", 12.5, 1, 5},
		{"fraction at point", 12.5, 2, 0},
		{"rounded product", 1292940571.0 * 1292940571.0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastDigits(tt.n, tt.count); got != tt.want {
				t.Errorf("LastDigits(%v, %d) = %d, want %d", tt.n, tt.count, got, tt.want)
			}
		})
	}
}

func TestLastDigit(t *testing.T) {
	if got := LastDigit(3556498); got != 8 {
		t.Errorf("LastDigit(3556498) = %d, want 8", got)
	}
}
