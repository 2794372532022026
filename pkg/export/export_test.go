package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	lperrors "github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/geom"
	"github.com/matzehuels/layerpaste/pkg/layer"
)

type fakeRaster struct {
	calls  int
	req    Request
	err    error
	ready  bool
	block  chan struct{}
	inside chan struct{}
}

func (f *fakeRaster) Ready() bool { return f.ready }

func (f *fakeRaster) Rasterize(ctx context.Context, req Request) (image.Image, error) {
	f.calls++
	f.req = req
	if f.inside != nil {
		close(f.inside)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	w, h := int(req.Region.Width), int(req.Region.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	return img, nil
}

var fixedNow = time.UnixMilli(1700000000123)

func newExporter(t *testing.T, store *layer.Store, r Rasterizer) (*Exporter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	return New(store, r, Options{
		Dir:    dir,
		Now:    func() time.Time { return fixedNow },
		Logger: log.New(io.Discard),
	}), dir
}

func TestExport(t *testing.T) {
	store := layer.NewStore()
	store.AddAt("a", 10, 10, geom.Pt(0, 0))
	store.AddAt("b", 10, 10, geom.Pt(5, 5))
	r := &fakeRaster{ready: true}
	e, dir := newExporter(t, store, r)

	res, err := e.Export(context.Background())
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	want := filepath.Join(dir, "layerpaste-export-1700000000123.jpg")
	if res.Path != want {
		t.Errorf("Path = %q, want %q", res.Path, want)
	}
	if res.Width != 15 || res.Height != 15 {
		t.Errorf("size = %dx%d, want 15x15", res.Width, res.Height)
	}
	if r.req.Region != (geom.Rect{X: 0, Y: 0, Width: 15, Height: 15}) {
		t.Errorf("Region = %+v, want bounding box", r.req.Region)
	}
	if !r.req.Flatten {
		t.Error("export should flatten the viewport")
	}
	if !r.req.Excludes(FocusRing) {
		t.Error("export should exclude the focus ring")
	}

	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if format != "jpeg" || cfg.Width != 15 || cfg.Height != 15 {
		t.Errorf("export is %s %dx%d, want jpeg 15x15", format, cfg.Width, cfg.Height)
	}
	if e.Exporting() {
		t.Error("Exporting() still set after export")
	}
}

func TestExportPadding(t *testing.T) {
	store := layer.NewStore()
	store.AddAt("a", 10, 20, geom.Pt(3, 4))
	r := &fakeRaster{ready: true}
	e := New(store, r, Options{Dir: t.TempDir(), Padding: 2, Logger: log.New(io.Discard)})

	if _, err := e.Export(context.Background()); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if want := (geom.Rect{X: 1, Y: 2, Width: 14, Height: 24}); r.req.Region != want {
		t.Errorf("Region = %+v, want %+v", r.req.Region, want)
	}
}

func TestExportPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*layer.Store)
		want  lperrors.Code
	}{
		{"no layers", func(*layer.Store) {}, lperrors.ErrCodeNoLayers},
		{"zero area", func(s *layer.Store) { s.Add("a", 0, 10) }, lperrors.ErrCodeEmptyBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := layer.NewStore()
			tt.setup(store)
			r := &fakeRaster{ready: true}
			e, dir := newExporter(t, store, r)

			_, err := e.Export(context.Background())
			if got := lperrors.GetCode(err); got != tt.want {
				t.Fatalf("Export() code = %q, want %q", got, tt.want)
			}
			if !lperrors.IsWarning(err) {
				t.Error("precondition failure should be a warning")
			}
			if r.calls != 0 {
				t.Error("rasterizer invoked despite failed precondition")
			}
			if _, err := os.Stat(dir); !os.IsNotExist(err) {
				t.Error("export directory created despite failed precondition")
			}
		})
	}
}

func TestExportRasterizerUnavailable(t *testing.T) {
	store := layer.NewStore()
	store.Add("a", 10, 10)

	for name, r := range map[string]Rasterizer{
		"nil":       nil,
		"not ready": &fakeRaster{ready: false},
	} {
		t.Run(name, func(t *testing.T) {
			e, _ := newExporter(t, store, r)
			_, err := e.Export(context.Background())
			if !lperrors.Is(err, lperrors.ErrCodeRasterizerUnavailable) {
				t.Errorf("Export() error = %v, want RASTERIZER_UNAVAILABLE", err)
			}
			if e.Exporting() {
				t.Error("Exporting() still set after failure")
			}
		})
	}
}

func TestExportRasterizeFailed(t *testing.T) {
	store := layer.NewStore()
	store.Add("a", 10, 10)
	cause := lperrors.New(lperrors.ErrCodeTainted, "layer from untrusted host")
	e, _ := newExporter(t, store, &fakeRaster{ready: true, err: cause})

	_, err := e.Export(context.Background())
	if !lperrors.Is(err, lperrors.ErrCodeRasterizeFailed) {
		t.Fatalf("Export() error = %v, want RASTERIZE_FAILED", err)
	}
	if !errors.Is(err, cause) {
		t.Error("Export() error should wrap the rasterizer error")
	}
	if lperrors.Hint(err) == "" {
		t.Error("Export() error should carry a hint")
	}
	if e.Exporting() {
		t.Error("Exporting() still set after failure")
	}
}

func TestExportRejectsReentry(t *testing.T) {
	store := layer.NewStore()
	store.Add("a", 10, 10)
	r := &fakeRaster{ready: true, block: make(chan struct{}), inside: make(chan struct{})}
	e, _ := newExporter(t, store, r)

	done := make(chan error, 1)
	go func() {
		_, err := e.Export(context.Background())
		done <- err
	}()
	<-r.inside

	if !e.Exporting() {
		t.Error("Exporting() = false during export")
	}
	if _, err := e.Export(context.Background()); !lperrors.Is(err, lperrors.ErrCodeExportInProgress) {
		t.Errorf("second Export() error = %v, want EXPORT_IN_PROGRESS", err)
	}

	close(r.block)
	if err := <-done; err != nil {
		t.Errorf("first Export() error: %v", err)
	}
	if e.Exporting() {
		t.Error("Exporting() still set after export")
	}
}

func TestStartSnapshotsCanvas(t *testing.T) {
	store := layer.NewStore()
	a := store.AddAt("a", 10, 10, geom.Pt(0, 0))
	b := store.AddAt("b", 10, 10, geom.Pt(20, 0))
	store.SendToBack(b)
	r := &fakeRaster{ready: true}
	e, _ := newExporter(t, store, r)

	job, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !e.Exporting() {
		t.Error("Exporting() = false after Start")
	}
	if got := job.Bounds(); got.Width != 30 || got.Height != 10 {
		t.Errorf("Bounds() = %+v, want 30x10", got)
	}

	// Edits after Start do not reach the running job.
	store.UpdatePosition(a, 100, 100)
	store.Delete(b)

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(r.req.Layers) != 2 || r.req.Layers[0].ID != b || r.req.Layers[1].X != 0 {
		t.Errorf("Request.Layers = %+v, want snapshot in paint order", r.req.Layers)
	}
	if r.req.Focused != b {
		t.Errorf("Request.Focused = %d, want %d", r.req.Focused, b)
	}
	if e.Exporting() {
		t.Error("Exporting() still set after Run")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("app", "jpg", time.UnixMilli(42)); got != "app-export-42.jpg" {
		t.Errorf("Filename() = %q, want app-export-42.jpg", got)
	}
}
