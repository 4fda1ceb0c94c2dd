package hostdisplay

import (
	"testing"

	"github.com/zaynotley/uicompositor/internal/pixel"
)

type recordingSink struct {
	resizedW, resizedH int
}

func (r *recordingSink) OnMouseMove(x, y int)          {}
func (r *recordingSink) OnMouseButton(b int, p bool)   {}
func (r *recordingSink) OnScroll(dx, dy float64)       {}
func (r *recordingSink) OnKey(code uint32, p bool)     {}
func (r *recordingSink) OnText(rn rune)                {}
func (r *recordingSink) OnPasteText(text string)       {}
func (r *recordingSink) OnResize(w, h int)             { r.resizedW, r.resizedH = w, h }

func TestWriteRectCopiesIntoBackingBuffer(t *testing.T) {
	h := New(4, 4, nil)
	src := []pixel.Color{pixel.RGBA(255, 1, 2, 3), pixel.RGBA(255, 4, 5, 6)}
	h.WriteRect(1, 1, 2, 1, src)

	idx := 1*h.Width() + 1
	if h.pixels[idx] != src[0] || h.pixels[idx+1] != src[1] {
		t.Fatalf("expected backing buffer to contain written pixels at (1,1)")
	}
}

func TestLayoutNotifiesSinkOnResize(t *testing.T) {
	sink := &recordingSink{}
	h := New(100, 100, sink)
	w, ht := h.Layout(200, 150)
	if w != 200 || ht != 150 {
		t.Fatalf("expected Layout to report new size, got %d,%d", w, ht)
	}
	if sink.resizedW != 200 || sink.resizedH != 150 {
		t.Fatalf("expected sink.OnResize(200,150), got %d,%d", sink.resizedW, sink.resizedH)
	}
}

func TestLayoutNoOpWhenSizeUnchanged(t *testing.T) {
	sink := &recordingSink{}
	h := New(100, 100, sink)
	h.Layout(100, 100)
	if sink.resizedW != 0 || sink.resizedH != 0 {
		t.Fatal("expected no resize notification when dimensions are unchanged")
	}
}
