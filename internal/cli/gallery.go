package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rothko/pkg/core/geom"
	"github.com/matzehuels/rothko/pkg/gallery"
)

// galleryCommand creates the gallery command with its subcommands.
func (c *CLI) galleryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Save, list and remove named compositions",
		Long: `The gallery stores the parameters of seeded compositions under a name.
Entries can be rendered again at any time with "rothko compose" or through
the HTTP service.`,
	}

	cmd.AddCommand(c.galleryListCommand())
	cmd.AddCommand(c.gallerySaveCommand())
	cmd.AddCommand(c.galleryRemoveCommand())

	return cmd
}

func (c *CLI) galleryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved compositions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newGallery(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("The gallery is empty")
				fmt.Println()
				printNextStep("Save a composition", `rothko gallery save --seed "No. 61"`)
				return nil
			}
			fmt.Println(renderTable([]string{"ID", "Name", "Seed", "Pattern", "Shapes", "Canvas", "Saved"}, galleryRows(entries)))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", gallery.DefaultListLimit, "maximum number of entries")
	return cmd
}

func galleryRows(entries []gallery.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		canvas := e.Canvas()
		count := "derived"
		if e.ShapeCount > 0 {
			count = strconv.Itoa(e.ShapeCount)
		}
		rows = append(rows, []string{
			e.ID[:8],
			truncate(e.Name, 24),
			truncate(e.Seed, 24),
			e.Pattern,
			count,
			fmt.Sprintf("%v×%v", canvas.Width, canvas.Height),
			e.CreatedAt.Local().Format(time.DateTime),
		})
	}
	return rows
}

type gallerySaveOpts struct {
	name    string
	seed    string
	count   int
	pattern string
	width   float64
	height  float64
}

func (c *CLI) gallerySaveCommand() *cobra.Command {
	var o gallerySaveOpts

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a seeded composition",
		Example: `  rothko gallery save --seed "No. 61" --pattern circle
  rothko gallery save --seed Rothko --name "Orange and Yellow" --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := c.Config.Defaults
			pattern, width, height := d.Pattern, d.Width, d.Height
			f := cmd.Flags()
			if f.Changed("pattern") {
				pattern = o.pattern
			}
			if f.Changed("width") {
				width = o.width
			}
			if f.Changed("height") {
				height = o.height
			}

			e, err := gallery.NewEntry(o.name, o.seed, o.count, pattern, geom.Canvas{Width: width, Height: height})
			if err != nil {
				return err
			}

			store, err := c.newGallery(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(cmd.Context(), e); err != nil {
				return err
			}
			printSuccess("Saved %s", StyleValue.Render(e.Name))
			printDetail("id %s", e.ID)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&o.name, "name", "", "display name (defaults to the seed)")
	fl.StringVarP(&o.seed, "seed", "s", "", "seed string (required)")
	fl.IntVarP(&o.count, "count", "n", 0, "number of shapes (0 derives it from the seed)")
	fl.StringVarP(&o.pattern, "pattern", "p", "", "shape pattern: quad, circle, triangle")
	fl.Float64Var(&o.width, "width", 0, "canvas width in pixels")
	fl.Float64Var(&o.height, "height", 0, "canvas height in pixels")
	_ = cmd.MarkFlagRequired("seed")
	_ = cmd.RegisterFlagCompletionFunc("pattern", completePatterns)

	return cmd
}

func (c *CLI) galleryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a saved composition",
		Args:    cobra.ExactArgs(1),

		ValidArgsFunction: c.completeGalleryIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newGallery(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}
