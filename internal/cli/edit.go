package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// editCommand creates the edit command, which opens the terminal canvas.
func (c *CLI) editCommand() *cobra.Command {
	var (
		exportDir string
		noCache   bool
		logFile   string
	)

	cmd := &cobra.Command{
		Use:   "edit [image...]",
		Short: "Open the canvas editor",
		Long: `Open the terminal canvas editor.

Images given as arguments are pasted once the canvas is on screen. Paste a
file path or an image URL into the terminal to add more. Drag layers with
the mouse, nudge them with the arrow keys and press ctrl+e to export.`,
		Example: `  layerpaste edit
  layerpaste edit photo.png https://example.com/logo.png
  layerpaste edit --log-file /tmp/layerpaste.log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			// The editor owns the terminal, so logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger, id := sessionLogger(newLogger(w, c.Logger.GetLevel()))
			ctx := withLogger(cmd.Context(), logger)

			ws := newWorkspace(ctx, cfg, workspaceOptions{exportDir: exportDir, noCache: noCache}, logger)
			defer ws.Close()

			logger.Info("session started", "id", id, "preload", len(args))
			model := newEditorModel(ctx, ws, args)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			logger.Info("session ended", "layers", ws.store.Len())

			if m, ok := final.(*editorModel); ok && len(m.exports) > 0 {
				printSuccess("Exported %d image(s)", len(m.exports))
				for _, path := range m.exports {
					printFile(path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportDir, "export-dir", "o", "", "directory for exported images (default: config export.dir)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote image cache")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write session logs to this file")

	return cmd
}
