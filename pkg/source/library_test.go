package source

import (
	"strings"
	"testing"

	"github.com/matzehuels/layerpaste/pkg/errors"
)

func TestLibraryPut(t *testing.T) {
	lib := NewLibrary(nil)
	data := pngBytes(t, 4, 4, red)

	ref, err := lib.Put(data, "/tmp/a.png")
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if !strings.HasPrefix(ref, "img:") || len(ref) != len("img:")+refHashLen {
		t.Errorf("Put() ref = %q, want img:<%d hex>", ref, refHashLen)
	}

	again, _ := lib.Put(data, "/tmp/b.png")
	if again != ref {
		t.Errorf("Put() of identical bytes = %q, want %q", again, ref)
	}
	if lib.Len() != 1 {
		t.Errorf("Len() = %d, want 1", lib.Len())
	}
	if got := lib.Origin(ref); got != "/tmp/a.png" {
		t.Errorf("Origin() = %q, want first origin", got)
	}
}

func TestLibraryPutEmpty(t *testing.T) {
	if _, err := NewLibrary(nil).Put(nil, "x"); !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Errorf("Put(nil) error = %v, want INVALID_IMAGE", err)
	}
}

func TestLibraryImage(t *testing.T) {
	lib := NewLibrary(nil)
	ref, _ := lib.Put(pngBytes(t, 6, 3, red), "a.png")

	img, err := lib.Image(ref)
	if err != nil {
		t.Fatalf("Image() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Errorf("Image() bounds = %v, want 6x3", b)
	}

	if _, err := lib.Image("img:missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Image(missing) error = %v, want NOT_FOUND", err)
	}

	badRef, _ := lib.Put([]byte("not an image"), "bad")
	if _, err := lib.Image(badRef); !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Errorf("Image(bad) error = %v, want INVALID_IMAGE", err)
	}
}

func TestLibraryThumbnail(t *testing.T) {
	lib := NewLibrary(nil)
	ref, _ := lib.Put(pngBytes(t, 40, 10, red), "a.png")

	tests := []struct {
		maxDim int
		w, h   int
	}{
		{20, 20, 5},
		{40, 40, 10},
		{100, 40, 10},
		{0, 40, 10},
		{2, 2, 1},
	}
	for _, tt := range tests {
		th, err := lib.Thumbnail(ref, tt.maxDim)
		if err != nil {
			t.Fatalf("Thumbnail(%d) error: %v", tt.maxDim, err)
		}
		b := th.Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("Thumbnail(%d) = %dx%d, want %dx%d", tt.maxDim, b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}

	a, _ := lib.Thumbnail(ref, 20)
	b, _ := lib.Thumbnail(ref, 20)
	if a != b {
		t.Error("Thumbnail() should memoise per size")
	}
}

func TestLibraryTainted(t *testing.T) {
	lib := NewLibrary([]string{"images.example.com", "*.cdn.test", " "})

	tests := []struct {
		origin string
		want   bool
	}{
		{"/home/me/cat.png", false},
		{"https://images.example.com/cat.png", false},
		{"https://IMAGES.example.com:8443/cat.png", false},
		{"https://a.cdn.test/cat.png", false},
		{"https://cdn.test/cat.png", true},
		{"https://evil.example.org/cat.png", true},
		{"http://example.com/cat.png", true},
	}
	for i, tt := range tests {
		data := pngBytes(t, 1, 1+i, red)
		ref, _ := lib.Put(data, tt.origin)
		if got := lib.Tainted(ref); got != tt.want {
			t.Errorf("Tainted(%s) = %v, want %v", tt.origin, got, tt.want)
		}
	}

	if lib.Tainted("img:unknown") {
		t.Error("Tainted(unknown) should be false")
	}
}
