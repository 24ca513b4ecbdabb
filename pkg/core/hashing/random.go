package hashing

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
)

// MaxResamples bounds the re-sampling loop in RandomNumber. A configuration with
// Min > Max can never produce a value at or above Min.
const MaxResamples = 32

// Source yields uniformly distributed values in [0, 1).
//
// *rand.Rand from math/rand/v2 satisfies Source.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Global returns a Source backed by the process-wide math/rand/v2 generator.
func Global() Source { return globalSource{} }

// NewSeeded returns a reproducible PCG-backed Source.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Sequence is a Source that replays a fixed list of values, cycling when
// exhausted. It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a Sequence over values. An empty list always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// RandomConfig configures RandomNumber.
type RandomConfig struct {
	Min          float64
	Max          float64
	Absolute     bool // return the magnitude
	RemoveDouble bool // keep only the digits after the decimal point
}

// DefaultRandomConfig returns {Min: 0, Max: 1}.
func DefaultRandomConfig() RandomConfig {
	return RandomConfig{Min: 0, Max: 1}
}

// RandomNumber draws a number in [cfg.Min, cfg.Max) from src (Global when nil).
//
// Draws below Min are re-sampled at most MaxResamples times; a value still
// below Min after that is clamped to Min. With RemoveDouble the integer part is
// dropped and the fractional digits are returned as a whole number, so 0.0123
// becomes 123 and a value without fractional digits becomes 0.
func RandomNumber(src Source, cfg RandomConfig) float64 {
	if src == nil {
		src = Global()
	}
	span := cfg.Max - cfg.Min
	draw := func() float64 { return float64(src.Float64()*span) + cfg.Min }

	r := draw()
	for i := 0; r < cfg.Min && i < MaxResamples; i++ {
		r = draw()
	}
	if r < cfg.Min {
		r = cfg.Min
	}

	if cfg.Absolute {
		r = math.Abs(r)
	}
	if cfg.RemoveDouble {
		r = fractionDigits(r)
	}
	return r
}

func fractionDigits(f float64) float64 {
	s := FormatNumber(f)
	i := strings.IndexByte(s, '.')
	if i < 0 || i == len(s)-1 {
		return 0
	}
	v, err := strconv.ParseFloat(s[i+1:], 64)
	if err != nil {
		return 0
	}
	return v
}
