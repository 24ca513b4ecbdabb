package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rothko/internal/server"
	"github.com/matzehuels/rothko/pkg/gallery"
)

type serveOpts struct {
	addr      string
	noCache   bool
	noGallery bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var o serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve compositions over HTTP",
		Long: `Run the HTTP service.

Compositions are rendered on request at /v1/render.{svg,png,json}. Seeded
results are cached with the configured backend and carry an ETag. The gallery
routes under /v1/gallery use the configured gallery store.`,
		Example: `  rothko serve
  rothko serve --addr 127.0.0.1:9000 --no-gallery
  curl 'localhost:8080/v1/render.svg?seed=Rothko&pattern=circle'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &o)
		},
	}

	cmd.Flags().StringVar(&o.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.noGallery, "no-gallery", false, "disable the gallery routes")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, o *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var store gallery.Store
	if !o.noGallery {
		store, err = c.newGallery(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	d := c.Config.Defaults
	srv, err := server.New(server.Config{
		Runner:  runner,
		Gallery: store,
		Defaults: server.Defaults{
			Pattern: d.Pattern,
			Width:   d.Width,
			Height:  d.Height,
			Scale:   d.Scale,

			ExcludeColors: d.ExcludeColors,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	addr := c.Config.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr = o.addr
	}
	sc := c.Config.Server
	logger.Debug("server config", "addr", addr, "cache", c.cacheBackend(o.noCache), "gallery", store != nil)

	return srv.Run(ctx, addr, server.Timeouts{
		Read:     sc.ReadTimeout.Duration,
		Write:    sc.WriteTimeout.Duration,
		Shutdown: sc.ShutdownTimeout.Duration,
	})
}

// cacheBackend names the backend newCache will use.
func (c *CLI) cacheBackend(noCache bool) string {
	if noCache {
		return "none"
	}
	return c.Config.Cache.Backend
}
