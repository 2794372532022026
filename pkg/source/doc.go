// Package source turns file paths and URLs into image payloads the editor can
// paste, and keeps the pasted bytes addressable by a content reference.
//
// # Overview
//
//   - [Loader] resolves a path or http(s) URL into a [Payload] with the
//     image's intrinsic width and height.
//   - [Fetcher] downloads remote images through pkg/cache and retries
//     transient failures with pkg/httputil.
//   - [Library] stores pasted payloads under refs of the form
//     "img:<hash prefix>", decodes them lazily and produces thumbnails for
//     the terminal preview.
//
// # Formats
//
// PNG, JPEG, GIF, BMP, TIFF and WebP are recognised. JPEG orientation tags
// are applied when decoding, so a portrait photo reports portrait size.
//
// # Tainted sources
//
// An image fetched from a host that is not in the allow-list is "tainted":
// it can be placed and moved, but the rasterizer refuses to export a canvas
// containing it. See [Library.Tainted].
package source
