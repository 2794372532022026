// Package pkg provides the core libraries for layerpaste, a layered image
// canvas.
//
// # Overview
//
// Layerpaste places pasted images on an infinite canvas as layers that can be
// dragged, nudged with the keyboard, restacked and exported as a single JPEG.
// The pkg directory is organized into three areas:
//
//  1. Editing model - layers, stacking order, viewport and input handling
//  2. Output - bounding boxes, compositing and export
//  3. Infrastructure - image loading, caching, HTTP retries, errors, hooks
//
// # Architecture
//
// The typical data flow through layerpaste:
//
//	Input source (terminal editor or compose command)
//	         ↓
//	    [interaction] package (events → store and viewport mutations)
//	         ↓
//	    [layer] package (layers, focus, z-order)
//	         ↓
//	    [export] package (bounds → rasterize → JPEG file)
//
// # Quick Start
//
// Paste an image and export the canvas:
//
//	store := layer.NewStore()
//	view := viewport.New(viewport.Options{})
//	lib := source.NewLibrary(nil)
//	ctrl := interaction.New(store, view, lib, interaction.DefaultOptions(), nil)
//
//	payload, _ := source.NewLoader(nil, nil).Open(ctx, "photo.png")
//	_ = ctrl.Handle(ctx, interaction.PasteEvent{
//	    Data: payload.Data, Width: payload.Width, Height: payload.Height,
//	})
//
//	exp := export.New(store, raster.New(view, lib, raster.Options{}), export.Options{Dir: "."})
//	res, _ := exp.Export(ctx)
//	fmt.Println(res.Path)
//
// # Main Packages
//
// ## Editing Model
//
// [layer] - The layer store: ids, positions, focus, drag and keyboard-move
// state, and z-order operations that swap with the next distinct level.
//
// [viewport] - Pan and zoom between screen and content coordinates, with
// focal-point zoom and quantized scale steps.
//
// [interaction] - The controller that turns paste, pointer, wheel and key
// events into store and viewport mutations.
//
// [geom] - Points and rectangles shared by all packages.
//
// ## Output
//
// [bounds] - Axis-aligned bounding box over a set of layers.
//
// [raster] - Compositing of layers into an image with fogleman/gg.
//
// [export] - Export orchestration: preconditions, re-entry guard, JPEG
// encoding and file naming.
//
// ## Infrastructure
//
// [source] - Image library, file and URL loader, and a cached fetcher.
//
// [cache] - Cache backends for fetched images (file, Redis, null).
//
// [httputil] - HTTP client defaults and retry with backoff.
//
// [errors] - Coded errors with hints and validation helpers.
//
// [observability] - Hooks for editor, cache and HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/interaction/...        # Specific package
//
// Set LAYERPASTE_TEST_REDIS_ADDR to run the Redis cache tests.
//
// [layer]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/layer
// [viewport]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/viewport
// [interaction]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/interaction
// [geom]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/geom
// [bounds]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/bounds
// [raster]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/raster
// [export]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/export
// [source]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/layerpaste/pkg/buildinfo
package pkg
