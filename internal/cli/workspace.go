package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerpaste/internal/config"
	"github.com/matzehuels/layerpaste/pkg/cache"
	"github.com/matzehuels/layerpaste/pkg/export"
	"github.com/matzehuels/layerpaste/pkg/interaction"
	"github.com/matzehuels/layerpaste/pkg/layer"
	"github.com/matzehuels/layerpaste/pkg/raster"
	"github.com/matzehuels/layerpaste/pkg/source"
	"github.com/matzehuels/layerpaste/pkg/viewport"
)

// workspace wires one canvas: its store and viewport, the controller that
// edits them, the image library and loader, and the exporter.
type workspace struct {
	store    *layer.Store
	view     *viewport.Viewport
	library  *source.Library
	loader   *source.Loader
	ctrl     *interaction.Controller
	exporter *export.Exporter
	cache    cache.Cache
	logger   *log.Logger
}

type workspaceOptions struct {
	exportDir string
	noCache   bool
}

func newWorkspace(ctx context.Context, cfg config.Config, opts workspaceOptions, logger *log.Logger) *workspace {
	c, keyer := newCache(ctx, cfg, opts.noCache)
	fetcher := source.NewFetcher(source.FetcherOptions{
		Timeout: cfg.Sources.Timeout.Duration,
		Cache:   c,
		Keyer:   keyer,
		TTL:     cfg.Cache.TTL.Duration,
	})

	store := layer.NewStore()
	view := viewport.New(cfg.ViewportOptions())
	lib := source.NewLibrary(cfg.Sources.AllowedHosts)

	dir := opts.exportDir
	if dir == "" {
		dir = cfg.ExportDir()
	}
	comp := raster.New(view, lib, raster.Options{Background: cfg.Export.Background})

	return &workspace{
		store:   store,
		view:    view,
		library: lib,
		loader:  source.NewLoader(fetcher, logger),
		ctrl:    interaction.New(store, view, lib, cfg.InteractionOptions(), logger),
		exporter: export.New(store, comp, export.Options{
			Dir:     dir,
			AppName: cfg.Export.AppName,
			Quality: cfg.Export.Quality,
			Padding: cfg.Export.Padding,
			Logger:  logger,
		}),
		cache:  c,
		logger: logger,
	}
}

// load resolves spec and turns it into a paste event.
func (w *workspace) load(ctx context.Context, spec string) (interaction.PasteEvent, error) {
	p, err := w.loader.Open(ctx, spec)
	if err != nil {
		return interaction.PasteEvent{}, err
	}
	return interaction.PasteEvent{Data: p.Data, Width: p.Width, Height: p.Height, Origin: p.Origin}, nil
}

func (w *workspace) Close() error {
	return w.cache.Close()
}
