package uihelpers

import (
	"math"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 360},
		{760, 360},
		{1100, 530},
		{4000, 900},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 260 || h > 520 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestContainRect(t *testing.T) {
	// wide view: letterbox left/right
	x, y, w, h, s := ContainRect(200, 100, 400, 100)
	if s != 1 || x != 100 || y != 0 || w != 200 || h != 100 {
		t.Fatalf("wide view got x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	// tall view: letterbox top/bottom, scaled up
	x, y, w, h, s = ContainRect(200, 100, 400, 400)
	if s != 2 || x != 0 || y != 100 || w != 400 || h != 200 {
		t.Fatalf("tall view got x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	if _, _, _, _, s := ContainRect(0, 10, 10, 10); s != 0 {
		t.Fatalf("degenerate image must give zero scale")
	}
}

func TestViewToImage(t *testing.T) {
	ix, iy, ok := ViewToImage(300, 200, 200, 100, 400, 400)
	if !ok || ix != 150 || iy != 50 {
		t.Fatalf("got (%d,%d,%v) want (150,50,true)", ix, iy, ok)
	}
	if _, _, ok := ViewToImage(10, 10, 200, 100, 400, 400); ok {
		t.Fatalf("letterbox point must not map")
	}
	// round trip of the corners stays within one pixel
	for _, p := range [][2]float32{{0, 100}, {399, 299}} {
		ix, iy, ok := ViewToImage(p[0], p[1], 200, 100, 400, 400)
		if !ok || math.Abs(float64(ix)-float64(p[0]/2)) > 1 || math.Abs(float64(iy)-float64((p[1]-100)/2)) > 1 {
			t.Fatalf("corner %v => (%d,%d,%v)", p, ix, iy, ok)
		}
	}
}
