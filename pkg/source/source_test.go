package source

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// pngBytes encodes a solid w×h image.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var red = color.RGBA{R: 255, A: 255}
