package pipeline

import (
	"bytes"
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/rothko/pkg/cache"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Seed: "test"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Pattern != "quad" || opts.Width != 400 || opts.Height != 400 || opts.Scale != 1 {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"svg"}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	opts = Options{Pattern: "Ellipse", Formats: []string{"PNG", "png", "json"}, Background: "#F5F5F5"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Pattern != "circle" || opts.ComposeConfig().Pattern != shape.Circle {
		t.Errorf("Pattern = %q", opts.Pattern)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png", "json"}) {
		t.Errorf("Formats = %v, want [png json]", opts.Formats)
	}
	if opts.Background != "#f5f5f5" {
		t.Errorf("Background = %q", opts.Background)
	}
}

func TestValidateAndSetDefaultsLocalInput(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"control characters in seed", Options{Seed: "a\x00b"}},
		{"long seed", Options{Seed: string(bytes.Repeat([]byte("x"), errs.MaxSeedLength+1))}},
		{"large vector canvas", Options{Seed: "test", Width: 8192, Height: 8192, Scale: 8, Formats: []string{"svg", "json"}}},
		{"raster at the bound", Options{Seed: "test", Width: 512, Height: 512, Scale: 8, Formats: []string{"png"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("ValidateAndSetDefaults() error = %v", err)
			}
		})
	}
}

func TestValidateAndSetDefaultsExcludeColors(t *testing.T) {
	opts := Options{ExcludeColors: []string{"FFFFFF", "#ffffff", " #133317 "}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	want := []string{"#ffffff", "#133317"}
	if !reflect.DeepEqual(opts.ExcludeColors, want) {
		t.Errorf("ExcludeColors = %q, want %q", opts.ExcludeColors, want)
	}
	if got := opts.ComposeConfig().ExcludeColors; !reflect.DeepEqual(got, want) {
		t.Errorf("ComposeConfig().ExcludeColors = %q", got)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"negative count", Options{ShapeCount: -1}, errs.ErrCodeInvalidInput},
		{"too many shapes", Options{ShapeCount: errs.MaxShapeCount + 1}, errs.ErrCodeInvalidInput},
		{"unknown pattern", Options{Pattern: "hexagon"}, errs.ErrCodeInvalidPattern},
		{"unknown format", Options{Formats: []string{"pdf"}}, errs.ErrCodeInvalidFormat},
		{"negative canvas", Options{Width: -1}, errs.ErrCodeInvalidCanvas},
		{"oversized raster", Options{Seed: "test", Width: 8192, Height: 8192, Scale: 8, Formats: []string{"png"}}, errs.ErrCodeInvalidCanvas},
		{"bad excluded colour", Options{ExcludeColors: []string{"#12345"}}, errs.ErrCodeInvalidColor},
		{"bad scale", Options{Scale: 100}, errs.ErrCodeInvalidInput},
		{"bad background", Options{Background: "white"}, errs.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)

	opts := Options{Seed: "test", ShapeCount: 3, Formats: []string{"svg", "json"}}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Stats.Shapes != 3 || res.Composition.RootHash != 3556498 {
		t.Errorf("unexpected composition: %+v", res.Composition)
	}
	if res.CacheInfo.ComposeHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte(`fill="#30775c"`)) {
		t.Errorf("svg artifact missing first shape:\n%s", res.Artifacts["svg"])
	}
	if len(res.CompositionHash) != 64 {
		t.Errorf("CompositionHash = %q", res.CompositionHash)
	}
	if mc.sets != 3 {
		t.Errorf("cache writes = %d, want 3 (composition + 2 artifacts)", mc.sets)
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.ComposeHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", again.CacheInfo)
	}
	if !reflect.DeepEqual(again.Composition, res.Composition) {
		t.Error("cached composition differs")
	}
	if !bytes.Equal(again.Artifacts["svg"], res.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
	if again.CompositionHash != res.CompositionHash {
		t.Error("composition hash changed between runs")
	}

	refreshed := opts
	refreshed.Refresh = true
	fresh, err := r.Execute(ctx, refreshed)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.ComposeHit || fresh.CacheInfo.RenderHit {
		t.Error("refresh should bypass cache reads")
	}
}

func TestExecutePartialArtifactHit(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)

	if _, err := r.Execute(ctx, Options{Seed: "Rothko", Formats: []string{"svg"}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Seed: "Rothko", Formats: []string{"svg", "png"}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.ComposeHit || res.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want compose hit, render miss", res.CacheInfo)
	}
	if len(res.Artifacts["png"]) == 0 || len(res.Artifacts["svg"]) == 0 {
		t.Error("missing artifacts")
	}
}

func TestExecuteRandomBypassesCache(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	r.Random = hashing.NewSeeded(7)

	res, err := r.Execute(context.Background(), Options{Pattern: "triangle"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Composition.Seeded || res.CompositionHash != "" {
		t.Errorf("random run looks seeded: %+v", res)
	}
	if mc.sets != 0 {
		t.Errorf("random run wrote %d cache entries", mc.sets)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Pattern: "blob"})
	if !errs.Is(err, errs.ErrCodeInvalidPattern) {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(ctx, Options{Seed: "test"}); err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner defaults not applied: %+v", r)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
