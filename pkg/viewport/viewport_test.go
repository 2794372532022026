package viewport

import (
	"math"
	"testing"

	"github.com/matzehuels/layerpaste/pkg/geom"
)

const tolerance = 1e-9

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance
}

func TestNewIsIdentity(t *testing.T) {
	v := New(Options{})
	if v.Scale() != 1 {
		t.Errorf("Scale() = %v, want 1", v.Scale())
	}
	p := geom.Pt(12, -3)
	if got := v.ScreenToContent(p); got != p {
		t.Errorf("ScreenToContent(%v) = %v, want identity", p, got)
	}
}

func TestZoomRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		focal  geom.Point
		pan    geom.Point
		first  int
		second int
	}{
		{"in then out at origin", geom.Pt(0, 0), geom.Pt(0, 0), ZoomIn, ZoomOut},
		{"out then in off-centre", geom.Pt(320, 180), geom.Pt(-40, 15), ZoomOut, ZoomIn},
		{"in then out after pan", geom.Pt(17.5, 900), geom.Pt(250, -75), ZoomIn, ZoomOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(Options{})
			v.Pan(tt.pan.X, tt.pan.Y)
			scale, offset := v.Scale(), v.Offset()

			if !v.Zoom(tt.focal, tt.first) {
				t.Fatal("first Zoom() reported no change")
			}
			v.Zoom(tt.focal, tt.second)

			if v.Scale() != scale {
				t.Errorf("Scale() = %v, want %v", v.Scale(), scale)
			}
			if !near(v.Offset(), offset) {
				t.Errorf("Offset() = %v, want %v", v.Offset(), offset)
			}
		})
	}
}

func TestZoomKeepsFocalPointFixed(t *testing.T) {
	v := New(Options{})
	v.Pan(30, 40)
	focal := geom.Pt(200, 100)
	before := v.ScreenToContent(focal)

	for i := 0; i < 5; i++ {
		v.Zoom(focal, ZoomIn)
	}
	after := v.ScreenToContent(focal)
	if !near(before, after) {
		t.Errorf("content under focal moved: %v -> %v", before, after)
	}
}

func TestZoomClamps(t *testing.T) {
	v := New(Options{MinScale: 0.5, MaxScale: 1.2, Step: 0.1})

	for i := 0; i < 10; i++ {
		v.Zoom(geom.Pt(0, 0), ZoomIn)
	}
	if v.Scale() != 1.2 {
		t.Errorf("Scale() = %v, want 1.2", v.Scale())
	}
	offset := v.Offset()
	if v.Zoom(geom.Pt(50, 50), ZoomIn) {
		t.Error("Zoom() at max reported a change")
	}
	if v.Offset() != offset {
		t.Errorf("Offset() changed at clamp: %v -> %v", offset, v.Offset())
	}

	for i := 0; i < 20; i++ {
		v.Zoom(geom.Pt(0, 0), ZoomOut)
	}
	if v.Scale() != 0.5 {
		t.Errorf("Scale() = %v, want 0.5", v.Scale())
	}
}

func TestPanIsScreenSpace(t *testing.T) {
	v := New(Options{})
	v.Zoom(geom.Pt(0, 0), ZoomIn)
	v.Zoom(geom.Pt(0, 0), ZoomIn)
	v.Pan(10, -20)
	if got := v.Offset(); !near(got, geom.Pt(10, -20)) {
		t.Errorf("Offset() = %v, want (10, -20)", got)
	}
}

func TestScreenContentInverse(t *testing.T) {
	v := New(Options{})
	v.Pan(13, 7)
	v.Zoom(geom.Pt(100, 100), ZoomIn)
	v.Zoom(geom.Pt(100, 100), ZoomIn)

	p := geom.Pt(42, -8)
	if got := v.ScreenToContent(v.ContentToScreen(p)); !near(got, p) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
	if got := v.ScreenDelta(geom.Pt(12, 12)); !near(got, geom.Pt(10, 10)) {
		t.Errorf("ScreenDelta() = %v, want (10, 10)", got)
	}
}

func TestReset(t *testing.T) {
	v := New(Options{})
	v.Pan(5, 5)
	v.Zoom(geom.Pt(1, 1), ZoomOut)
	v.Reset()
	if v.Scale() != 1 || v.Offset() != (geom.Point{}) {
		t.Errorf("after Reset scale=%v offset=%v", v.Scale(), v.Offset())
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{MinScale: 3, MaxScale: 2}.withDefaults()
	if o.MinScale != 2 || o.MaxScale != 3 {
		t.Errorf("swapped bounds = [%v, %v], want [2, 3]", o.MinScale, o.MaxScale)
	}
	if o.Step != DefaultStep {
		t.Errorf("Step = %v, want %v", o.Step, DefaultStep)
	}
}
