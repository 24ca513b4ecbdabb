package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rothko/pkg/core/shape"
)

var patternDescriptions = map[shape.Kind]string{
	shape.Quad:     "rectangles anchored at their top-left corner",
	shape.Circle:   "circles centred on their position",
	shape.Triangle: "right triangles with the right angle at the bottom-right",
}

func (c *CLI) patternsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the shape patterns",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(renderTable([]string{"Pattern", "Placement", "Shapes"}, patternRows()))
		},
	}
}

func patternRows() [][]string {
	var rows [][]string
	for _, k := range shape.Kinds() {
		placement := "top-left half"
		if k.WholeCanvas() {
			placement = "whole canvas"
		}
		rows = append(rows, []string{k.String(), placement, patternDescriptions[k]})
	}
	return rows
}

// completePatterns completes --pattern flags.
func completePatterns(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, k := range shape.Kinds() {
		names = append(names, k.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
