// Package config loads the rothko configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/rothko/config.toml
// (~/.config/rothko/config.toml when XDG_CONFIG_HOME is unset). Every key is
// optional; missing keys keep their defaults. Command-line flags override file
// values, and a few environment variables override both the file and the
// defaults:
//
//	ROTHKO_CACHE        cache.backend
//	ROTHKO_REDIS_URL    cache.redis_url
//	ROTHKO_MONGO_URI    gallery.mongo_uri
//	ROTHKO_ADDR         server.addr
//
// Example:
//
//	[defaults]
//	pattern = "circle"
//	width   = 800
//	height  = 600
//	formats = ["svg", "png"]
//	exclude_colors = ["#ffffff", "#000000"]
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr          = ":8080"
//	write_timeout = "30s"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rothko/pkg/core/color"
	errs "github.com/matzehuels/rothko/pkg/errors"
)

const appName = "rothko"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Gallery backends.
const (
	GalleryMemory = "memory"
	GalleryFile   = "file"
	GalleryMongo  = "mongo"
)

// Config is the decoded configuration file.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
	Gallery  Gallery  `toml:"gallery"`
}

// Defaults are the composition defaults applied when a flag or query
// parameter is absent.
type Defaults struct {
	Pattern    string   `toml:"pattern"`
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`
	Formats    []string `toml:"formats"`
	Scale      float64  `toml:"scale"`
	Background string   `toml:"background,omitempty"`

	// ExcludeColors are never drawn by random compositions. An empty list
	// allows every colour.
	ExcludeColors []string `toml:"exclude_colors"`
}

// Cache selects the artifact cache.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir,omitempty"` // file backend; empty means the XDG cache dir
	RedisURL string `toml:"redis_url,omitempty"`
	Prefix   string `toml:"prefix,omitempty"`
}

// Server configures `rothko serve`.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Gallery selects the store for saved compositions.
type Gallery struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir,omitempty"`
	MongoURI   string `toml:"mongo_uri,omitempty"`
	Database   string `toml:"database,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// Duration decodes TOML strings such as "30s" or "2m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Pattern:       "quad",
			Width:         400,
			Height:        400,
			Formats:       []string{"svg"},
			Scale:         1,
			ExcludeColors: slices.Clone(color.DefaultExcluded),
		},
		Cache: Cache{Backend: CacheFile},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Gallery: Gallery{Backend: GalleryFile},
	}
}

// DefaultPath returns the location of the configuration file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicitly named file must exist.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return finish(Default())
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return finish(Default())
		}
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeConfiguration, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return finish(cfg)
}

// Decode reads TOML from r over the defaults. It does not apply environment
// overrides.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ROTHKO_CACHE"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("ROTHKO_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("ROTHKO_MONGO_URI"); v != "" {
		c.Gallery.MongoURI = v
	}
	if v := os.Getenv("ROTHKO_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks backend names and the settings each backend needs.
// Composition defaults are checked later by the pipeline.
func (c *Config) Validate() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if !slices.Contains([]string{CacheNone, CacheFile, CacheRedis}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeConfiguration, "unknown cache backend %q (valid: none, file, redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		return errs.New(errs.ErrCodeConfiguration, "cache.redis_url is required for the redis backend")
	}

	c.Gallery.Backend = strings.ToLower(strings.TrimSpace(c.Gallery.Backend))
	if !slices.Contains([]string{GalleryMemory, GalleryFile, GalleryMongo}, c.Gallery.Backend) {
		return errs.New(errs.ErrCodeConfiguration, "unknown gallery backend %q (valid: memory, file, mongo)", c.Gallery.Backend)
	}
	if c.Gallery.Backend == GalleryMongo && c.Gallery.MongoURI == "" {
		return errs.New(errs.ErrCodeConfiguration, "gallery.mongo_uri is required for the mongo backend")
	}

	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeConfiguration, "server.addr cannot be empty")
	}
	for name, d := range map[string]Duration{
		"read_timeout":     c.Server.ReadTimeout,
		"write_timeout":    c.Server.WriteTimeout,
		"shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if d.Duration < 0 {
			return errs.New(errs.ErrCodeConfiguration, "server.%s cannot be negative", name)
		}
	}
	return nil
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
