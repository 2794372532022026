// Package cli implements the layerpaste command-line interface.
//
// # Commands
//
//   - edit: open the terminal canvas editor
//   - compose: paste images onto a canvas and export it without a UI
//   - cache: inspect and clear the remote image cache
//   - config: show the config file location and effective settings
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command context; see loggerFromContext.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layerpaste/internal/config"
	"github.com/matzehuels/layerpaste/pkg/buildinfo"
	"github.com/matzehuels/layerpaste/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger. Observability
// events are logged at debug level.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	registerHooks(c.Logger)
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Layerpaste composes pasted images into one picture",
		Long:         `Layerpaste is a layered canvas for the terminal: paste images, drag and nudge them into place, change their stacking order and export the result as a single JPEG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigHint()+")")

	root.AddCommand(c.editCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Cache
// =============================================================================

// loadConfig reads the --config file, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.LoadFile(c.configPath)
	}
	return config.Load()
}

func defaultConfigHint() string {
	if p, err := config.Path(); err == nil {
		return p
	}
	return "$" + config.EnvConfigDir + "/" + config.FileName
}

// newCache opens the configured image cache. A cache that cannot be opened
// is logged and replaced by a null cache so that loading still works.
func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, cache.Keyer) {
	logger := loggerFromContext(ctx)
	keyer := cache.NewDefaultKeyer()
	if noCache {
		return cache.NewNullCache(), keyer
	}

	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), keyer
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.Cache.RedisAddr, "error", err)
			return cache.NewNullCache(), keyer
		}
		return rc, cache.NewScopedKeyer(keyer, appName+":")
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullCache(), keyer
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
			return cache.NewNullCache(), keyer
		}
		return fc, keyer
	}
}
