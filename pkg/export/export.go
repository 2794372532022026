package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/layerpaste/pkg/bounds"
	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/layer"
	"github.com/matzehuels/layerpaste/pkg/observability"
)

// Defaults for [Options].
const (
	DefaultAppName = "layerpaste"
	DefaultQuality = 90
	Extension      = "jpg"
)

// taintHint is shown when the rasterizer fails, most often because a
// layer came from a host that is not allowed.
const taintHint = "use locally pasted images, or add the image host to sources.allowed_hosts"

// Options configures an [Exporter].
type Options struct {
	Dir     string           // output directory, created on demand; "" is the working directory
	AppName string           // filename prefix
	Quality int              // JPEG quality 1-100
	Padding float64          // content units added around the bounding box
	Now     func() time.Time // clock used for filenames
	Logger  *log.Logger
}

func (o Options) withDefaults() Options {
	if o.AppName == "" {
		o.AppName = DefaultAppName
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Result describes a written export.
type Result struct {
	Path     string
	Bounds   bounds.Bounds
	Width    int
	Height   int
	Size     int
	Duration time.Duration
}

// Exporter turns the layers of a store into a JPEG file.
type Exporter struct {
	store     *layer.Store
	raster    Rasterizer
	opts      Options
	exporting atomic.Bool
}

// New creates an Exporter. raster may be nil; exports then fail with
// RASTERIZER_UNAVAILABLE.
func New(store *layer.Store, raster Rasterizer, opts Options) *Exporter {
	return &Exporter{store: store, raster: raster, opts: opts.withDefaults()}
}

// Exporting reports whether an export is in flight.
func (e *Exporter) Exporting() bool { return e.exporting.Load() }

// Export runs [Exporter.Start] and [Job.Run] back to back.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	job, err := e.Start(ctx)
	if err != nil {
		return nil, err
	}
	return job.Run(ctx)
}

// Start claims the exporter, checks the export preconditions and snapshots
// the canvas. It must be called from the goroutine that owns the store.
// On success the exporter stays busy until the returned job has run.
func (e *Exporter) Start(ctx context.Context) (*Job, error) {
	if !e.exporting.CompareAndSwap(false, true) {
		return nil, errors.New(errors.ErrCodeExportInProgress, "an export is already running")
	}
	job := &Job{e: e, start: time.Now()}
	observability.Editor().OnExportStart(ctx, e.store.Len())

	if err := job.prepare(); err != nil {
		job.finish(ctx, nil, err)
		return nil, err
	}
	return job, nil
}

// Job is an export that passed its preconditions and holds the canvas
// snapshot to rasterize.
type Job struct {
	e      *Exporter
	req    Request
	bounds bounds.Bounds
	start  time.Time
}

// Bounds returns the padded region being exported.
func (j *Job) Bounds() bounds.Bounds { return j.bounds }

func (j *Job) prepare() error {
	e := j.e
	if e.store.Len() == 0 {
		return errors.New(errors.ErrCodeNoLayers, "nothing to export: the canvas is empty")
	}
	b := bounds.Compute(e.store.Layers())
	if b.Empty() {
		return errors.New(errors.ErrCodeEmptyBounds, "nothing to export: layers cover no area")
	}
	if e.raster == nil {
		return errors.New(errors.ErrCodeRasterizerUnavailable, "no rasterizer available")
	}
	if r, ok := e.raster.(Readier); ok && !r.Ready() {
		return errors.New(errors.ErrCodeRasterizerUnavailable, "rasterizer is not ready")
	}

	j.bounds = b.Pad(e.opts.Padding)
	j.req = Request{
		Region:  j.bounds.Rect(),
		Layers:  e.store.Sorted(),
		Focused: e.store.Focused(),
		Exclude: func(el Element) bool { return el == FocusRing },
		Flatten: true,
	}
	return nil
}

// Run rasterizes the snapshot and writes the JPEG. It may run on any
// goroutine and releases the exporter when it returns.
func (j *Job) Run(ctx context.Context) (res *Result, err error) {
	defer func() { j.finish(ctx, res, err) }()
	e := j.e

	b := j.bounds
	e.opts.Logger.Debug("rasterizing", "x", b.MinX, "y", b.MinY, "w", b.Width, "h", b.Height, "layers", len(j.req.Layers))
	img, err := e.raster.Rasterize(ctx, j.req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterizeFailed, err, "export failed").WithHint(taintHint)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, e.opts.Quality); err != nil {
		return nil, err
	}

	path := filepath.Join(e.opts.Dir, Filename(e.opts.AppName, Extension, e.opts.Now()))
	if e.opts.Dir != "" {
		if err := os.MkdirAll(e.opts.Dir, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create export directory")
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}

	res = &Result{
		Path:     path,
		Bounds:   b,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Size:     buf.Len(),
		Duration: time.Since(j.start),
	}
	e.opts.Logger.Info("exported", "path", path, "width", res.Width, "height", res.Height, "bytes", res.Size)
	return res, nil
}

func (j *Job) finish(ctx context.Context, res *Result, err error) {
	var path string
	var size int
	if res != nil {
		path, size = res.Path, res.Size
	}
	j.e.exporting.Store(false)
	observability.Editor().OnExportComplete(ctx, path, size, time.Since(j.start), err)
}

// Encode writes img as a JPEG of the given quality.
func Encode(w io.Writer, img image.Image, quality int) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode jpeg")
	}
	return nil
}

// Filename returns "<app>-export-<unix-millis>.<ext>".
func Filename(app, ext string, t time.Time) string {
	return fmt.Sprintf("%s-export-%d.%s", app, t.UnixMilli(), ext)
}
