package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layerpaste/internal/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath != "" {
				fmt.Println(c.configPath)
				return nil
			}
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(configTable(cfg))
			return nil
		},
	})

	return cmd
}

// configTable renders cfg as a key/value table.
func configTable(cfg config.Config) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	hosts := strings.Join(cfg.Sources.AllowedHosts, ", ")
	if hosts == "" {
		hosts = "(none)"
	}

	rows := [][]string{
		{"viewport.min_scale", f(cfg.Viewport.MinScale)},
		{"viewport.max_scale", f(cfg.Viewport.MaxScale)},
		{"viewport.step", f(cfg.Viewport.Step)},
		{"interaction.drag_threshold", f(cfg.Interaction.DragThreshold)},
		{"interaction.key_step", f(cfg.Interaction.KeyStep)},
		{"interaction.key_step_large", f(cfg.Interaction.KeyStepLarge)},
		{"interaction.reserved_modifier", cfg.Interaction.ReservedModifier},
		{"export.dir", cfg.ExportDir()},
		{"export.app_name", cfg.Export.AppName},
		{"export.quality", strconv.Itoa(cfg.Export.Quality)},
		{"export.background", cfg.Export.Background},
		{"export.padding", f(cfg.Export.Padding)},
		{"sources.allowed_hosts", hosts},
		{"sources.timeout", cfg.Sources.Timeout.String()},
		{"cache.backend", cfg.Cache.Backend},
		{"cache.ttl", cfg.Cache.TTL.String()},
	}
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rows = append(rows, []string{"cache.redis_addr", cfg.Cache.RedisAddr})
	case config.BackendFile:
		if dir, err := cfg.CacheDir(); err == nil {
			rows = append(rows, []string{"cache.dir", dir})
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("SETTING", "VALUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTitle.Padding(0, 1)
			case col == 0:
				return StyleDim.Padding(0, 1)
			default:
				return StyleValue.Padding(0, 1)
			}
		}).
		String()
}
