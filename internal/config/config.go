// Package config loads layerpaste settings from a TOML file.
//
// The file lives at $LAYERPASTE_CONFIG_DIR/config.toml, or under the user
// config directory (for example ~/.config/layerpaste/config.toml). A missing
// file is not an error: every setting has a default, and values present in
// the file replace only the defaults they name.
//
//	[viewport]
//	min_scale = 0.1
//	max_scale = 5.0
//	step = 0.1
//
//	[interaction]
//	drag_threshold = 5
//	key_step = 1
//	key_step_large = 10
//	reserved_modifier = "ctrl"
//
//	[export]
//	dir = "~/Pictures"
//	app_name = "layerpaste"
//	quality = 90
//	background = "#ffffff"
//	padding = 0
//
//	[sources]
//	allowed_hosts = ["images.example.com", "*.githubusercontent.com"]
//	timeout = "10s"
//
//	[cache]
//	backend = "file"   # file, redis or none
//	dir = ""
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/export"
	"github.com/matzehuels/layerpaste/pkg/interaction"
	"github.com/matzehuels/layerpaste/pkg/raster"
	"github.com/matzehuels/layerpaste/pkg/viewport"
)

// AppName names the config and cache directories.
const AppName = "layerpaste"

// EnvConfigDir overrides the config directory.
const EnvConfigDir = "LAYERPASTE_CONFIG_DIR"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full settings tree.
type Config struct {
	Viewport    Viewport    `toml:"viewport"`
	Interaction Interaction `toml:"interaction"`
	Export      Export      `toml:"export"`
	Sources     Sources     `toml:"sources"`
	Cache       Cache       `toml:"cache"`
}

// Viewport bounds zooming.
type Viewport struct {
	MinScale float64 `toml:"min_scale"`
	MaxScale float64 `toml:"max_scale"`
	Step     float64 `toml:"step"`
}

// Interaction tunes pointer and keyboard handling.
type Interaction struct {
	DragThreshold    float64 `toml:"drag_threshold"`
	KeyStep          float64 `toml:"key_step"`
	KeyStepLarge     float64 `toml:"key_step_large"`
	ReservedModifier string  `toml:"reserved_modifier"`
}

// Export controls the written JPEG.
type Export struct {
	Dir        string  `toml:"dir"`
	AppName    string  `toml:"app_name"`
	Quality    int     `toml:"quality"`
	Background string  `toml:"background"`
	Padding    float64 `toml:"padding"`
}

// Sources controls remote image loading.
type Sources struct {
	AllowedHosts []string `toml:"allowed_hosts"`
	Timeout      Duration `toml:"timeout"`
}

// Cache selects where fetched images are cached.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a string ("10s", "24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Viewport: Viewport{
			MinScale: viewport.DefaultMinScale,
			MaxScale: viewport.DefaultMaxScale,
			Step:     viewport.DefaultStep,
		},
		Interaction: Interaction{
			DragThreshold:    interaction.DefaultDragThreshold,
			KeyStep:          interaction.DefaultKeyStep,
			KeyStepLarge:     interaction.DefaultKeyStepLarge,
			ReservedModifier: "ctrl",
		},
		Export: Export{
			Dir:        ".",
			AppName:    export.DefaultAppName,
			Quality:    export.DefaultQuality,
			Background: raster.DefaultBackground,
		},
		Sources: Sources{
			Timeout: Duration{10 * time.Second},
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
	}
}

// Dir returns the config directory.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file at the default path. See [LoadFile].
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults and validates the result. A missing
// file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate rejects settings the editor cannot honour.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	v := c.Viewport
	if v.MinScale <= 0 || v.MaxScale <= 0 || v.Step <= 0 {
		return invalid("viewport scales and step must be positive")
	}
	if v.MinScale > 1 || v.MaxScale < 1 {
		return invalid("viewport range [%g, %g] must include 1", v.MinScale, v.MaxScale)
	}

	i := c.Interaction
	if i.DragThreshold < 0 || i.KeyStep <= 0 || i.KeyStepLarge <= 0 {
		return invalid("interaction distances must be positive")
	}
	if _, err := interaction.ParseModifier(i.ReservedModifier); err != nil {
		return invalid("interaction.reserved_modifier: %v", err)
	}

	e := c.Export
	if err := errors.ValidateAppName(e.AppName); err != nil {
		return err
	}
	if e.Quality < 1 || e.Quality > 100 {
		return invalid("export.quality must be between 1 and 100, got %d", e.Quality)
	}
	if !hexColor.MatchString(e.Background) {
		return invalid("export.background must be a hex colour like #ffffff, got %q", e.Background)
	}
	if e.Padding < 0 {
		return invalid("export.padding cannot be negative")
	}

	if c.Sources.Timeout.Duration < 0 {
		return invalid("sources.timeout cannot be negative")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	default:
		return invalid("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	return nil
}

// InteractionOptions converts the [interaction] section.
func (c Config) InteractionOptions() interaction.Options {
	mod, _ := interaction.ParseModifier(c.Interaction.ReservedModifier)
	return interaction.Options{
		DragThreshold:    c.Interaction.DragThreshold,
		KeyStep:          c.Interaction.KeyStep,
		KeyStepLarge:     c.Interaction.KeyStepLarge,
		ReservedModifier: mod,
	}
}

// ViewportOptions converts the [viewport] section.
func (c Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		MinScale: c.Viewport.MinScale,
		MaxScale: c.Viewport.MaxScale,
		Step:     c.Viewport.Step,
	}
}

// ExportDir returns the export directory with a leading ~ expanded.
func (c Config) ExportDir() string {
	return expandHome(c.Export.Dir)
}

// CacheDir returns the cache directory: the configured one, or
// $XDG_CACHE_HOME/layerpaste, or ~/.cache/layerpaste.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir), nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
