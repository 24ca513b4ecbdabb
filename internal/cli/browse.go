package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rothko/pkg/core/compose"
	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/core/hashing"
	"github.com/matzehuels/rothko/pkg/core/shape"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/gallery"
	"github.com/matzehuels/rothko/pkg/render/sink"
	"github.com/matzehuels/rothko/pkg/render/surface"
)

// browseChrome is the number of terminal lines used around the grid.
const browseChrome = 6

// browseMinColumns keeps the grid readable in very small terminals.
const browseMinColumns = 8

type browseOpts struct {
	seed      string
	count     int
	pattern   string
	noGallery bool
}

func (c *CLI) browseCommand() *cobra.Command {
	var o browseOpts

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore compositions interactively in the terminal",
		Long: `Draw compositions in the terminal and step through patterns, seeds and
shape counts. Seeded compositions can be saved to the gallery with "s".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd, &o)
		},
	}

	cmd.Flags().StringVarP(&o.seed, "seed", "s", "", "initial seed (empty for a random seed)")
	cmd.Flags().IntVarP(&o.count, "count", "n", 0, "initial shape count (0 derives it from the seed)")
	cmd.Flags().StringVarP(&o.pattern, "pattern", "p", "", "initial pattern")
	cmd.Flags().BoolVar(&o.noGallery, "no-gallery", false, "disable saving to the gallery")
	_ = cmd.RegisterFlagCompletionFunc("pattern", completePatterns)

	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, o *browseOpts) error {
	ctx := cmd.Context()

	name := c.Config.Defaults.Pattern
	if cmd.Flags().Changed("pattern") {
		name = o.pattern
	}
	kind, err := shape.ParseKind(name)
	if err != nil {
		return err
	}
	if err := errs.ValidateShapeCount(o.count); err != nil {
		return err
	}

	var store gallery.Store
	if !o.noGallery {
		store, err = c.newGallery(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	canvas := geom.Canvas{Width: c.Config.Defaults.Width, Height: c.Config.Defaults.Height}
	m := newBrowseModel(ctx, compose.Config{Seed: o.seed, ShapeCount: o.count, Pattern: kind}, canvas.OrFallback())
	m.store = store
	m.logger = loggerFromContext(ctx)
	if m.cfg.Seed == "" {
		m.cfg.Seed = m.randomSeed()
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if bm, ok := final.(browseModel); ok && bm.director != nil {
		_ = bm.director.Close()
	}
	return err
}

// savedMsg reports the outcome of a gallery save.
type savedMsg struct {
	entry *gallery.Entry
	err   error
}

// browseModel is the bubbletea model of the browse command. The director is
// recreated whenever the grid size changes; all other redraws reuse it.
type browseModel struct {
	ctx    context.Context
	cfg    compose.Config
	canvas geom.Canvas
	cols   int

	director *compose.Director
	grid     *sink.Terminal
	comp     *compose.Composition

	random hashing.Source
	store  gallery.Store
	logger *log.Logger

	status string
	err    error
}

func newBrowseModel(ctx context.Context, cfg compose.Config, canvas geom.Canvas) browseModel {
	return browseModel{
		ctx:    ctx,
		cfg:    cfg,
		canvas: canvas,
		cols:   sink.DefaultTerminalColumns,
		random: hashing.Global(),
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = gridColumns(msg.Width, msg.Height, m.canvas)
		if m.director != nil {
			_ = m.director.Close()
			m.director = nil
		}
		return m.redraw(), nil

	case savedMsg:
		if msg.err != nil {
			m.status = StyleWarning.Render(errs.UserMessage(msg.err))
		} else {
			m.status = styleIconSuccess.Render(iconSuccess) + " saved " + msg.entry.ID
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.cfg.Pattern = stepPattern(m.cfg.Pattern, -1)
		case "right", "l":
			m.cfg.Pattern = stepPattern(m.cfg.Pattern, 1)
		case "r":
			m.cfg.Seed = m.randomSeed()
		case "+", "=":
			m.cfg.ShapeCount = min(m.shownCount()+1, errs.MaxShapeCount)
		case "-":
			// zero returns to the derived count
			m.cfg.ShapeCount = max(m.shownCount()-1, 0)
		case " ":
		case "s":
			return m, m.save()
		default:
			return m, nil
		}
		m.status = ""
		return m.redraw(), nil
	}
	return m, nil
}

// shownCount is the shape count currently on screen.
func (m browseModel) shownCount() int {
	if m.cfg.ShapeCount > 0 || m.comp == nil {
		return m.cfg.ShapeCount
	}
	return len(m.comp.Shapes)
}

// redraw paints cfg, creating the director on first use.
func (m browseModel) redraw() browseModel {
	if m.director == nil {
		canvas, cols := m.canvas, m.cols
		factory := surface.Factory(func() (surface.Surface, error) {
			return sink.NewTerminal(canvas, cols), nil
		})
		d, err := compose.NewDirector(factory, compose.WithRandom(m.random), compose.WithLogger(m.logger))
		if err != nil {
			m.err = err
			return m
		}
		m.director = d
	}

	c, err := m.director.Draw(m.cfg)
	if err != nil {
		m.err = err
		return m
	}
	m.err = nil
	m.comp = c
	if g, ok := m.director.Surface().(*sink.Terminal); ok {
		m.grid = g
	}
	return m
}

func (m browseModel) randomSeed() string {
	cfg := hashing.DefaultRandomConfig()
	cfg.RemoveDouble = true
	return hashing.FormatNumber(hashing.RandomNumber(m.random, cfg))
}

func (m browseModel) save() tea.Cmd {
	if m.store == nil {
		return func() tea.Msg {
			return savedMsg{err: errs.New(errs.ErrCodeUnsupported, "gallery disabled")}
		}
	}
	store, ctx, cfg, canvas := m.store, m.ctx, m.cfg, m.canvas
	return func() tea.Msg {
		e, err := gallery.NewEntry("", cfg.Seed, cfg.ShapeCount, cfg.Pattern.String(), canvas)
		if err != nil {
			return savedMsg{err: err}
		}
		if err := store.Save(ctx, e); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{entry: e}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rothko"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.cfg.Pattern.String()))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render(errs.UserMessage(m.err)))
	case m.grid != nil:
		b.WriteString(m.grid.String())
	default:
		b.WriteString(StyleDim.Render("drawing…"))
	}
	b.WriteString("\n\n")

	if m.comp != nil {
		count := "derived"
		if m.cfg.ShapeCount > 0 {
			count = "fixed"
		}
		fmt.Fprintf(&b, "%s %s  %s %d  %s %d (%s)\n",
			StyleDim.Render("seed"), StyleValue.Render(truncate(m.cfg.Seed, 32)),
			StyleDim.Render("root"), m.comp.RootHash,
			StyleDim.Render("shapes"), len(m.comp.Shapes), count)
	}
	if m.status != "" {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ pattern  r seed  +/- shapes  space redraw  s save  q quit"))
	return b.String()
}

// gridColumns fits the grid into a terminal of width×height characters. Each
// cell is two characters wide.
func gridColumns(width, height int, canvas geom.Canvas) int {
	cols := width / 2
	if rows := height - browseChrome; rows > 0 {
		cols = min(cols, int(float64(rows)*canvas.Width/canvas.Height))
	}
	return max(cols, browseMinColumns)
}

// stepPattern moves through shape.Kinds, wrapping at both ends.
func stepPattern(k shape.Kind, delta int) shape.Kind {
	kinds := shape.Kinds()
	i := (int(k) + delta) % len(kinds)
	if i < 0 {
		i += len(kinds)
	}
	return kinds[i]
}
