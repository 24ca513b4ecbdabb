package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/rothko/pkg/core/compose"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/gallery"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestBrowseModel(t *testing.T) browseModel {
	t.Helper()
	m := newBrowseModel(context.Background(),
		compose.Config{Seed: "test", ShapeCount: 3, Pattern: shape.Quad},
		geom.Canvas{Width: 400, Height: 400})
	m.random = hashing.NewSequence(0.5)
	return m
}

func update(t *testing.T, m browseModel, msg tea.Msg) (browseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(browseModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm, cmd
}

func TestBrowseWindowSizeDraws(t *testing.T) {
	m := newTestBrowseModel(t)
	if m.cols != sink.DefaultTerminalColumns {
		t.Errorf("initial columns = %d", m.cols)
	}
	if !strings.Contains(m.View(), "drawing") {
		t.Error("view before the first size message should show a placeholder")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 46})
	defer m.director.Close()

	if m.err != nil {
		t.Fatal(m.err)
	}
	if m.comp == nil || m.comp.RootHash != 3556498 || len(m.comp.Shapes) != 3 {
		t.Fatalf("unexpected composition %+v", m.comp)
	}
	cols, rows := m.grid.Size()
	if cols != 40 || rows != 40 {
		t.Errorf("grid = %dx%d, want 40x40", cols, rows)
	}
	if !strings.Contains(m.View(), "3556498") {
		t.Error("view should show the root hash")
	}
}

func TestBrowseResizeReplacesDirector(t *testing.T) {
	m := newTestBrowseModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 46})
	first := m.director

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 30})
	defer m.director.Close()
	if m.director == first {
		t.Error("resize should create a new director")
	}
	if cols, _ := m.grid.Size(); cols != 20 {
		t.Errorf("grid columns = %d, want 20", cols)
	}
}

func TestBrowseKeys(t *testing.T) {
	m := newTestBrowseModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 46})
	defer func() { m.director.Close() }()
	firstGrid := m.grid

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.cfg.Pattern != shape.Circle {
		t.Errorf("right: pattern = %v, want circle", m.cfg.Pattern)
	}
	if m.grid == firstGrid {
		t.Error("a new pattern should draw on a fresh surface")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cfg.Pattern != shape.Triangle {
		t.Errorf("left twice: pattern = %v, want triangle", m.cfg.Pattern)
	}

	m, _ = update(t, m, runeKey('+'))
	if m.cfg.ShapeCount != 4 || len(m.comp.Shapes) != 4 {
		t.Errorf("+: count = %d, shapes = %d, want 4", m.cfg.ShapeCount, len(m.comp.Shapes))
	}

	m, _ = update(t, m, runeKey('r'))
	if m.cfg.Seed != "5" {
		t.Errorf("r: seed = %q, want 5", m.cfg.Seed)
	}

	grid := m.grid
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.grid != grid {
		t.Error("redraw with an unchanged configuration should reuse the surface")
	}

	_, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestBrowseMinusReturnsToDerivedCount(t *testing.T) {
	m := newTestBrowseModel(t)
	m.cfg.ShapeCount = 1
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 46})
	defer func() { m.director.Close() }()

	m, _ = update(t, m, runeKey('-'))
	if m.cfg.ShapeCount != 0 {
		t.Errorf("count = %d, want 0 (derived)", m.cfg.ShapeCount)
	}
	if want := compose.ShapeCount(0, m.comp.RootHash); len(m.comp.Shapes) != want {
		t.Errorf("got %d shapes, want derived %d", len(m.comp.Shapes), want)
	}
}

func TestBrowseSave(t *testing.T) {
	m := newTestBrowseModel(t)
	store := gallery.NewMemoryStore()
	m.store = store
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 46})
	defer m.director.Close()

	m, cmd := update(t, m, runeKey('s'))
	if cmd == nil {
		t.Fatal("s should return a command")
	}
	m, _ = update(t, m, cmd())
	if !strings.Contains(m.status, "saved") {
		t.Errorf("status = %q", m.status)
	}

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Seed != "test" || entries[0].ShapeCount != 3 || entries[0].Pattern != "quad" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestBrowseSaveWithoutGallery(t *testing.T) {
	m := newTestBrowseModel(t)
	_, cmd := update(t, m, runeKey('s'))
	msg, ok := cmd().(savedMsg)
	if !ok {
		t.Fatalf("got %T, want savedMsg", cmd())
	}
	if !errs.Is(msg.err, errs.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", msg.err)
	}
}

func TestGridColumns(t *testing.T) {
	square := geom.Canvas{Width: 400, Height: 400}
	wide := geom.Canvas{Width: 800, Height: 400}

	tests := []struct {
		name          string
		width, height int
		canvas        geom.Canvas
		want          int
	}{
		{"width bound", 60, 100, square, 30},
		{"height bound", 200, 26, square, 20},
		{"wide canvas", 200, 26, wide, 40},
		{"tiny terminal", 4, 4, square, browseMinColumns},
		{"unknown height", 50, 0, square, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gridColumns(tt.width, tt.height, tt.canvas); got != tt.want {
				t.Errorf("gridColumns(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestStepPattern(t *testing.T) {
	if got := stepPattern(shape.Triangle, 1); got != shape.Quad {
		t.Errorf("stepPattern(triangle, 1) = %v", got)
	}
	if got := stepPattern(shape.Quad, -1); got != shape.Triangle {
		t.Errorf("stepPattern(quad, -1) = %v", got)
	}
}
