package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/geom"
	"github.com/matzehuels/layerpaste/pkg/interaction"
	"github.com/matzehuels/layerpaste/pkg/layer"
)

// composeOptions holds the flags of the compose command.
type composeOptions struct {
	exportDir string
	at        []string
	cascade   float64
	front     []int
	back      []int
	padding   float64
	noCache   bool
}

// composeCommand creates the compose command, which pastes images onto a
// canvas and exports it without opening the editor.
func (c *CLI) composeCommand() *cobra.Command {
	var opts composeOptions

	cmd := &cobra.Command{
		Use:   "compose <image>...",
		Short: "Paste images onto a canvas and export it",
		Long: `Paste images onto a canvas and export the result as a JPEG.

Images are pasted in argument order, each above the previous one. Layer ids
follow the same order starting at 1, so --front 1 raises the first image
above all others.`,
		Example: `  layerpaste compose background.png logo.png --at 0,0 --at 40,40
  layerpaste compose a.png b.png c.png --cascade 30 --back 3
  layerpaste compose https://example.com/photo.jpg -o out/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("padding") && opts.padding < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative")
			}
			return c.runCompose(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.exportDir, "output", "o", "", "output directory (default: config export.dir)")
	cmd.Flags().StringArrayVar(&opts.at, "at", nil, "content position x,y of the next image (repeatable)")
	cmd.Flags().Float64Var(&opts.cascade, "cascade", 0, "offset each image without --at by this many units")
	cmd.Flags().IntSliceVar(&opts.front, "front", nil, "layer ids to bring to the front, in order")
	cmd.Flags().IntSliceVar(&opts.back, "back", nil, "layer ids to send to the back, in order")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "content units added around the layers (default: config export.padding)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the remote image cache")

	return cmd
}

func (c *CLI) runCompose(cmd *cobra.Command, args []string, opts composeOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("padding") {
		cfg.Export.Padding = opts.padding
	}

	positions, err := parsePoints(opts.at)
	if err != nil {
		return err
	}
	if len(positions) > len(args) {
		return errors.New(errors.ErrCodeInvalidInput, "%d positions given for %d images", len(positions), len(args))
	}

	ws := newWorkspace(ctx, cfg, workspaceOptions{exportDir: opts.exportDir, noCache: opts.noCache}, logger)
	defer ws.Close()

	prog := newProgress(logger)
	for i, spec := range args {
		ev, err := ws.load(ctx, spec)
		if err != nil {
			return err
		}
		pos := layer.DefaultPosition.Add(geom.Pt(float64(i)*opts.cascade, float64(i)*opts.cascade))
		if i < len(positions) {
			pos = positions[i]
		}
		if _, err := ws.ctrl.PasteAt(ctx, ev, pos); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Pasted %d layers", ws.store.Len()))

	if err := reorder(cmd, ws, opts.front, interaction.KeyPageUp); err != nil {
		return err
	}
	if err := reorder(cmd, ws, opts.back, interaction.KeyPageDown); err != nil {
		return err
	}
	if err := ws.ctrl.Handle(ctx, interaction.KeyEvent{Kind: interaction.KeyPress, Key: interaction.KeyEscape}); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Exporting...")
	spinner.Start()
	res, err := ws.exporter.Export(ctx)
	spinner.Stop()
	if err != nil {
		if errors.IsWarning(err) {
			printWarning("%s", errors.UserMessage(err))
			return nil
		}
		return err
	}

	printSuccess("Exported %d layers", ws.store.Len())
	printFile(res.Path)
	printDetail("%dx%d px · %s · %s", res.Width, res.Height, formatSize(res.Size), res.Duration.Round(time.Millisecond))
	return nil
}

// reorder focuses each id in turn and sends it key, the way a user would.
func reorder(cmd *cobra.Command, ws *workspace, ids []int, key interaction.Key) error {
	for _, id := range ids {
		if _, ok := ws.store.Get(layer.ID(id)); !ok {
			return errors.New(errors.ErrCodeNotFound, "layer %d does not exist", id).
				WithHint(fmt.Sprintf("layer ids run from 1 to %d", ws.store.Len()))
		}
		ws.store.SetFocus(layer.ID(id))
		if err := ws.ctrl.Handle(cmd.Context(), interaction.KeyEvent{Kind: interaction.KeyPress, Key: key}); err != nil {
			return err
		}
	}
	return nil
}

// parsePoints parses "x,y" pairs.
func parsePoints(values []string) ([]geom.Point, error) {
	points := make([]geom.Point, 0, len(values))
	for _, v := range values {
		xs, ys, ok := strings.Cut(v, ",")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "position %q: want x,y", v)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if errX != nil || errY != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "position %q: want x,y", v)
		}
		points = append(points, geom.Pt(x, y))
	}
	return points, nil
}

// formatSize renders a byte count in KB or MB.
func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
