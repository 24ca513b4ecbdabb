package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rothko/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --verbose (-v): debug-level logging
//   - --config: configuration file (default $XDG_CONFIG_HOME/rothko/config.toml)
//
// The configuration is loaded and the logger attached to the command context
// before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Rothko generates compositions of coloured shapes from a seed",
		Long:         `Rothko turns any string into a deterministic composition of rectangles, circles or triangles. The same seed always produces the same picture; no seed produces a random one.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		// main prints the error without the code prefix
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/rothko/config.toml)")

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.galleryCommand())
	root.AddCommand(c.patternsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
