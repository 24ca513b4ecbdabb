package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rothko/pkg/cache"
	"github.com/matzehuels/rothko/pkg/config"
	"github.com/matzehuels/rothko/pkg/gallery"
	"github.com/matzehuels/rothko/pkg/pipeline"
	"github.com/matzehuels/rothko/pkg/render/sink"
)

// appName is the application name used for directories and display.
const appName = "rothko"

// cacheNamespace prefixes every cache key. Bump it when the JSON or artifact
// encoding changes so stale entries are never read back.
const cacheNamespace = "v1:"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a CLI with a default logger and the built-in configuration.
// The configuration file is read once the root command parses its flags.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file named by --config, or the default
// location.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// newRunner creates a pipeline runner with the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, cacheNamespace), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	backend := c.Config.Cache.Backend
	if noCache {
		backend = config.CacheNone
	}
	switch backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:    c.Config.Cache.RedisURL,
			Prefix: c.Config.Cache.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// newGallery opens the configured gallery store.
func (c *CLI) newGallery(ctx context.Context) (gallery.Store, error) {
	g := c.Config.Gallery
	switch g.Backend {
	case config.GalleryMemory:
		return gallery.NewMemoryStore(), nil
	case config.GalleryMongo:
		ms, err := gallery.NewMongoStore(ctx, gallery.MongoConfig{
			URI:        g.MongoURI,
			Database:   g.Database,
			Collection: g.Collection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	dir := g.Dir
	if dir == "" {
		d, err := configDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		dir = filepath.Join(d, "gallery")
	}
	fs, err := gallery.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("gallery store", "path", fs.Path())
	return fs, nil
}

// pipelineDefaults returns options prefilled from the configuration.
func (c *CLI) pipelineDefaults() pipeline.Options {
	d := c.Config.Defaults
	return pipeline.Options{
		Pattern:    d.Pattern,
		Width:      d.Width,
		Height:     d.Height,
		Formats:    append([]string(nil), d.Formats...),
		Scale:      d.Scale,
		Background: d.Background,

		ExcludeColors: slices.Clone(d.ExcludeColors),
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/rothko/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns ~/.config/rothko, honouring XDG_CONFIG_HOME.
func configDir() (string, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{sink.FormatSVG}
	}
	return splitList(s)
}

// splitList splits a comma-separated flag value and drops empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
