package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rothko/pkg/core/compose"
	errs "github.com/matzehuels/rothko/pkg/errors"
	"github.com/matzehuels/rothko/pkg/pipeline"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

// stdoutPath selects standard output for --output.
const stdoutPath = "-"

// previewColumns is the width of the --preview grid.
const previewColumns = 32

// composeOpts holds the flags of the compose command. Unset flags fall back
// to the configuration file.
type composeOpts struct {
	seed       string
	count      int
	pattern    string
	width      float64
	height     float64
	formats    string
	output     string
	scale      float64
	background string
	avoid      string
	noStroke   bool
	noCache    bool
	refresh    bool
	preview    bool
}

func (c *CLI) composeCommand() *cobra.Command {
	var o composeOpts

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Generate a composition and write it to files",
		Long: `Generate a composition of coloured shapes.

The same seed always yields the same composition. Without --seed a random
composition is drawn; random compositions are never cached.`,
		Example: `  rothko compose --seed "No. 61" --pattern circle
  rothko compose -s Rothko -f svg,png -o rothko
  rothko compose --pattern triangle -o - > random.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.composeOptions(cmd, &o)
			return c.runCompose(cmd.Context(), opts, &o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.seed, "seed", "s", "", "seed string (empty for a random composition)")
	f.IntVarP(&o.count, "count", "n", 0, "number of shapes (0 derives it from the seed)")
	f.StringVarP(&o.pattern, "pattern", "p", "", "shape pattern: quad, circle, triangle")
	f.Float64Var(&o.width, "width", 0, "canvas width in pixels")
	f.Float64Var(&o.height, "height", 0, "canvas height in pixels")
	f.StringVarP(&o.formats, "format", "f", "", "output format(s): svg, png, json (comma-separated)")
	f.StringVarP(&o.output, "output", "o", "", "output file, base path for several formats, or - for stdout")
	f.Float64Var(&o.scale, "scale", 0, "raster scale factor for png")
	f.StringVar(&o.background, "background", "", "background colour as #rrggbb")
	f.StringVar(&o.avoid, "avoid-colors", "", "colours random compositions never draw (comma-separated, empty allows all)")
	f.BoolVar(&o.noStroke, "no-stroke", false, "draw shapes without outline")
	f.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&o.refresh, "refresh", false, "ignore cached results")
	f.BoolVar(&o.preview, "preview", false, "print a terminal preview")

	_ = cmd.RegisterFlagCompletionFunc("pattern", completePatterns)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// composeOptions merges the configuration defaults with the flags the user
// set explicitly.
func (c *CLI) composeOptions(cmd *cobra.Command, o *composeOpts) pipeline.Options {
	opts := c.pipelineDefaults()
	opts.Seed = o.seed
	opts.ShapeCount = o.count
	opts.NoStroke = o.noStroke
	opts.Refresh = o.refresh

	f := cmd.Flags()
	if f.Changed("pattern") {
		opts.Pattern = o.pattern
	}
	if f.Changed("width") {
		opts.Width = o.width
	}
	if f.Changed("height") {
		opts.Height = o.height
	}
	if f.Changed("format") {
		opts.Formats = parseFormats(o.formats)
	}
	if f.Changed("scale") {
		opts.Scale = o.scale
	}
	if f.Changed("background") {
		opts.Background = o.background
	}
	if f.Changed("avoid-colors") {
		opts.ExcludeColors = splitList(o.avoid)
	}
	return opts
}

func (c *CLI) runCompose(ctx context.Context, opts pipeline.Options, o *composeOpts) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	toStdout := o.output == stdoutPath
	if toStdout && len(opts.Formats) != 1 {
		return errs.New(errs.ErrCodeInvalidInput, "writing to stdout needs exactly one format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Composed %d shapes", result.Stats.Shapes))

	if toStdout {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths := outputPaths(o.output, defaultBase(result.Composition), opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
		logger.Debug("wrote artifact", "format", format, "path", paths[format], "bytes", len(result.Artifacts[format]))
	}

	printSummary(result)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	if o.preview {
		if err := printPreview(result.Composition); err != nil {
			return err
		}
	}
	if result.Composition.Seeded {
		fmt.Println()
		printNextStep("Save it", saveCommandLine(result.Composition, opts.ShapeCount))
	}
	return nil
}

// printSummary prints the composition parameters as a key/value table.
func printSummary(r *pipeline.Result) {
	c := r.Composition
	seed := c.Seed
	if !c.Seeded {
		seed = StyleDim.Render("random")
	}
	fmt.Println(renderKeyValues([][]string{
		{"Seed", truncate(seed, 48)},
		{"Root hash", strconv.FormatInt(c.RootHash, 10)},
		{"Pattern", c.Pattern.String()},
		{"Shapes", strconv.Itoa(len(c.Shapes))},
		{"Canvas", fmt.Sprintf("%v×%v", c.Canvas.Width, c.Canvas.Height)},
		{"Compose", cacheStatus(r.CacheInfo.ComposeHit)},
		{"Render", cacheStatus(r.CacheInfo.RenderHit)},
	}))
}

func printPreview(c *compose.Composition) error {
	t := sink.NewTerminal(c.Canvas, previewColumns)
	if err := compose.Render(c, t); err != nil {
		return err
	}
	fmt.Println(t.String())
	return nil
}

func saveCommandLine(c *compose.Composition, count int) string {
	line := fmt.Sprintf("rothko gallery save --seed %q --pattern %s", c.Seed, c.Pattern)
	if count > 0 {
		line += fmt.Sprintf(" --count %d", count)
	}
	if c.Canvas.Width != pipeline.DefaultWidth || c.Canvas.Height != pipeline.DefaultHeight {
		line += fmt.Sprintf(" --width %v --height %v", c.Canvas.Width, c.Canvas.Height)
	}
	return line
}

// defaultBase derives an output base name: the slugged seed, or the root
// hash for random compositions.
func defaultBase(c *compose.Composition) string {
	if c.Seeded {
		if s := slug(c.Seed); s != "" {
			return appName + "-" + s
		}
	}
	return fmt.Sprintf("%s-%d", appName, c.RootHash)
}

// slug keeps lower-case ASCII letters and digits, joining runs of anything
// else with a single dash. The result is at most 40 bytes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			if b.Len() >= 40 {
				break
			}
			continue
		}
		dash = true
	}
	return b.String()
}

// outputPaths maps each format to a file path.
//
// An empty output uses base. A single format with an output that has an
// extension writes exactly that file. Otherwise a known format extension is
// stripped from output and every format gets its own extension.
func outputPaths(output, base string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output == "" {
		output = base
	} else if len(formats) == 1 && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}

	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(sink.Formats(), strings.ToLower(ext)) {
		output = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = output + "." + f
	}
	return paths
}
