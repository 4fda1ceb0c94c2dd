package cursor

import (
	"testing"

	"github.com/zaynotley/uicompositor/internal/hittest"
)

func TestAllShapesHaveExpectedDimensions(t *testing.T) {
	cases := []struct {
		shape  Shape
		w, h   int
		hx, hy int
	}{
		{Arrow, 12, 18, 0, 0},
		{ResizeNS, 11, 16, 5, 8},
		{ResizeEW, 16, 11, 8, 5},
		{ResizeNWSE, 14, 14, 7, 7},
		{ResizeNESW, 14, 14, 7, 7},
		{Move, 15, 15, 7, 7},
	}
	for _, c := range cases {
		b := All(c.shape)
		if b.W != c.w || b.H != c.h {
			t.Fatalf("shape %v: got %dx%d want %dx%d", c.shape, b.W, b.H, c.w, c.h)
		}
		if b.HX != c.hx || b.HY != c.hy {
			t.Fatalf("shape %v: got hotspot (%d,%d) want (%d,%d)", c.shape, b.HX, b.HY, c.hx, c.hy)
		}
		if len(b.Pix) != b.W*b.H {
			t.Fatalf("shape %v: pixel buffer length %d != w*h %d", c.shape, len(b.Pix), b.W*b.H)
		}
	}
}

func TestForHitTestEdgeMapping(t *testing.T) {
	if ForHitTest(true, false, hittest.EdgeTop) != Move {
		t.Fatal("dragging always wins over any edge")
	}
	if ForHitTest(false, false, hittest.EdgeLeft) != ResizeEW {
		t.Fatalf("left edge must map to ResizeEW")
	}
	if ForHitTest(false, false, hittest.Content) != Arrow {
		t.Fatal("content hit must map to Arrow")
	}
}
