// Package export frames the layered canvas and writes it out as a single
// JPEG.
//
// [Exporter.Start] claims the exporter, computes the bounding box of every
// layer and snapshots the canvas. [Job.Run] then asks a [Rasterizer] for
// that region with the focus ring excluded and the viewport ignored, and
// saves the result as <app>-export-<unix-millis>.jpg in the export
// directory. An interactive editor calls Start on its event loop and Run in
// the background; [Exporter.Export] does both in one call.
//
// Only one export runs at a time; a second Start while one is in flight
// returns EXPORT_IN_PROGRESS. An empty canvas (NO_LAYERS) or one whose
// layers cover no area (EMPTY_BOUNDS) is reported as a warning and the
// rasterizer is not invoked. Use errors.IsWarning to tell these apart from
// failures.
package export
