package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerpaste/pkg/observability"
)

// logHooks reports editor, cache and HTTP events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLayerAdded(_ context.Context, id int, width, height float64) {
	h.logger.Debug("layer added", "id", id, "width", width, "height", height)
}

func (h logHooks) OnLayerRemoved(_ context.Context, id int) {
	h.logger.Debug("layer removed", "id", id)
}

func (h logHooks) OnReorder(_ context.Context, id int, op string) {
	h.logger.Debug("layer reordered", "id", id, "op", op)
}

func (h logHooks) OnExportStart(_ context.Context, layerCount int) {
	h.logger.Debug("export started", "layers", layerCount)
}

func (h logHooks) OnExportComplete(_ context.Context, filename string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export finished", "error", err, "elapsed", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("export finished", "file", filename, "bytes", size, "elapsed", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "elapsed", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

// registerHooks routes all observability events to logger.
func registerHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetEditorHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
