package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/interaction"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Export.Quality != 90 || cfg.Cache.Backend != BackendFile {
		t.Errorf("LoadFile(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[viewport]
max_scale = 8.0

[interaction]
reserved_modifier = "alt"

[export]
dir = "/tmp/exports"
quality = 75

[sources]
allowed_hosts = ["images.example.com"]
timeout = "3s"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "1h"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Viewport.MaxScale != 8 || cfg.Viewport.MinScale != 0.1 {
		t.Errorf("viewport = %+v, want max 8 and default min", cfg.Viewport)
	}
	if cfg.Interaction.KeyStep != 1 {
		t.Errorf("KeyStep = %v, want default 1", cfg.Interaction.KeyStep)
	}
	if got := cfg.InteractionOptions().ReservedModifier; got != interaction.ModAlt {
		t.Errorf("ReservedModifier = %v, want alt", got)
	}
	if cfg.ExportDir() != "/tmp/exports" || cfg.Export.Quality != 75 || cfg.Export.AppName != "layerpaste" {
		t.Errorf("export = %+v", cfg.Export)
	}
	if len(cfg.Sources.AllowedHosts) != 1 || cfg.Sources.Timeout.Duration != 3*time.Second {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[viewport\n"},
		{"unknown key", "[export]\nformat = \"png\"\n"},
		{"bad duration", "[sources]\ntimeout = \"soon\"\n"},
		{"invalid value", "[export]\nquality = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("LoadFile() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.Viewport.Step = 0 }},
		{"range excludes 1", func(c *Config) { c.Viewport.MinScale = 2 }},
		{"negative threshold", func(c *Config) { c.Interaction.DragThreshold = -1 }},
		{"unknown modifier", func(c *Config) { c.Interaction.ReservedModifier = "hyper" }},
		{"app name with slash", func(c *Config) { c.Export.AppName = "a/b" }},
		{"quality too high", func(c *Config) { c.Export.Quality = 101 }},
		{"bad colour", func(c *Config) { c.Export.Background = "white" }},
		{"negative padding", func(c *Config) { c.Export.Padding = -1 }},
		{"negative timeout", func(c *Config) { c.Sources.Timeout.Duration = -time.Second }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = BackendRedis; c.Cache.RedisAddr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPathHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	got, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}
	if want := filepath.Join(dir, FileName); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	t.Setenv("XDG_CACHE_HOME", "/xdg")
	if got, _ := cfg.CacheDir(); got != filepath.Join("/xdg", AppName) {
		t.Errorf("CacheDir() = %q, want XDG location", got)
	}

	cfg.Cache.Dir = "/var/cache/lp"
	if got, _ := cfg.CacheDir(); got != "/var/cache/lp" {
		t.Errorf("CacheDir() = %q, want configured dir", got)
	}
}
