package compositor

import (
	"testing"

	"github.com/zaynotley/uicompositor/internal/cursor"
	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/gpu2d"
	"github.com/zaynotley/uicompositor/internal/pixel"
)

type fakeFB struct {
	w, h int
	pix  []pixel.Color
}

func newFakeFB(w, h int) *fakeFB {
	return &fakeFB{w: w, h: h, pix: make([]pixel.Color, w*h)}
}

func (f *fakeFB) Width() int  { return f.w }
func (f *fakeFB) Height() int { return f.h }
func (f *fakeFB) WriteRect(x, y, w, h int, src []pixel.Color) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			f.pix[(y+row)*f.w+(x+col)] = src[row*w+col]
		}
	}
}

// TestDamageCorrectness verifies that composing only the damaged region
// produces the same framebuffer as composing the full screen from scratch,
// for an equivalent final layer arrangement.
func TestDamageCorrectness(t *testing.T) {
	build := func(c *Compositor) {
		bg := c.AddLayer(0, 0, 64, 64, true)
		for i := range bg.Buf.Pix {
			bg.Buf.Pix[i] = pixel.RGBA(255, 20, 20, 20)
		}
		win := c.AddLayer(10, 10, 20, 20, true)
		for i := range win.Buf.Pix {
			win.Buf.Pix[i] = pixel.RGBA(255, 200, 0, 0)
		}
		c.MoveLayer(win.ID, 15, 12)
	}

	incremental := New(64, 64, gpu2d.NewStream())
	build(incremental)
	fbA := newFakeFB(64, 64)
	incremental.Compose(fbA)

	full := New(64, 64, gpu2d.NewStream())
	build(full)
	full.DamageAll()
	fbB := newFakeFB(64, 64)
	full.Compose(fbB)

	for i := range fbA.pix {
		if fbA.pix[i] != fbB.pix[i] {
			t.Fatalf("pixel %d differs: damage-limited=%v full=%v", i, fbA.pix[i], fbB.pix[i])
		}
	}
}

func TestComposeNoOpWhenNoDamage(t *testing.T) {
	c := New(32, 32, gpu2d.NewStream())
	c.AddLayer(0, 0, 10, 10, true)
	fb := newFakeFB(32, 32)
	regions := c.Compose(fb)
	if len(regions) == 0 {
		t.Fatal("expected the initial AddLayer to damage something")
	}
	regions = c.Compose(fb)
	if regions != nil {
		t.Fatalf("second compose with no new damage must be a no-op, got %v", regions)
	}
}

// TestPresentIdempotence verifies that repeated composes of the same layer
// contents produce the same framebuffer output.
func TestPresentIdempotence(t *testing.T) {
	c := New(16, 16, gpu2d.NewStream())
	l := c.AddLayer(0, 0, 16, 16, true)
	for i := range l.Buf.Pix {
		l.Buf.Pix[i] = pixel.RGBA(255, 5, 6, 7)
	}
	fb1 := newFakeFB(16, 16)
	c.Compose(fb1)

	c.DamageAll()
	fb2 := newFakeFB(16, 16)
	c.Compose(fb2)

	for i := range fb1.pix {
		if fb1.pix[i] != fb2.pix[i] {
			t.Fatalf("pixel %d differs between idempotent composes", i)
		}
	}
}

func TestRemoveLayerDamagesBounds(t *testing.T) {
	c := New(32, 32, gpu2d.NewStream())
	l := c.AddLayer(4, 4, 8, 8, true)
	c.Compose(newFakeFB(32, 32))
	c.RemoveLayer(l.ID)
	fb := newFakeFB(32, 32)
	regions := c.Compose(fb)
	if len(regions) != 1 {
		t.Fatalf("expected exactly one damaged region after removal, got %d", len(regions))
	}
	want := geom.Rect{X: 4, Y: 4, W: 8, H: 8}
	if regions[0] != want {
		t.Fatalf("got %+v want %+v", regions[0], want)
	}
}

// TestShadowSurvivesUnderOpaqueBackground checks the bottom-up compositing
// order: a shadowed window sits above an opaque background layer, so the
// shadow band (painted just outside the window's own bounds) must remain
// visible in the final frame rather than being stomped by the background
// layer's opaque pixels.
func TestShadowSurvivesUnderOpaqueBackground(t *testing.T) {
	c := New(64, 64, gpu2d.NewStream())
	bg := c.AddLayer(0, 0, 64, 64, true)
	for i := range bg.Buf.Pix {
		bg.Buf.Pix[i] = pixel.RGBA(255, 10, 10, 10)
	}
	win := c.AddLayer(20, 20, 10, 10, true)
	for i := range win.Buf.Pix {
		win.Buf.Pix[i] = pixel.RGBA(255, 200, 0, 0)
	}
	win.Shadow = true

	fb := newFakeFB(64, 64)
	c.Compose(fb)

	shadowX, shadowY := 20-4, 20-4 // inside the shadow band, outside the window body
	bgColor := pixel.RGBA(255, 10, 10, 10)
	if got := fb.pix[shadowY*64+shadowX]; got == bgColor {
		t.Fatalf("shadow band at (%d,%d) must differ from the untouched background color, got %v", shadowX, shadowY, got)
	}
}

// TestSoftwareCursorOverlayDrawsAndRestores verifies the no-HW-cursor
// fallback: once a cursor bitmap is defined, Compose paints it into the
// flushed output, and moving the cursor restores the pixels it previously
// covered instead of smearing a trail.
func TestSoftwareCursorOverlayDrawsAndRestores(t *testing.T) {
	c := New(32, 32, nil)
	bg := c.AddLayer(0, 0, 32, 32, true)
	bgColor := pixel.RGBA(255, 1, 2, 3)
	for i := range bg.Buf.Pix {
		bg.Buf.Pix[i] = bgColor
	}

	cursorColor := pixel.RGBA(255, 255, 255, 255)
	c.DefineHWCursor(cursor.Bitmap{W: 4, H: 4, HX: 0, HY: 0, Pix: solidBitmap(4, 4, cursorColor)})
	c.MoveHWCursor(10, 10)

	fb := newFakeFB(32, 32)
	c.Compose(fb)
	if got := fb.pix[10*32+10]; got != cursorColor {
		t.Fatalf("cursor pixel at its hotspot must be painted, got %v", got)
	}

	c.MoveHWCursor(20, 20)
	c.Compose(fb)
	if got := fb.pix[10*32+10]; got != bgColor {
		t.Fatalf("moving the cursor away must restore the background underneath, got %v", got)
	}
	if got := fb.pix[20*32+20]; got != cursorColor {
		t.Fatalf("cursor pixel at its new hotspot must be painted, got %v", got)
	}
}

func solidBitmap(w, h int, color pixel.Color) []pixel.Color {
	pix := make([]pixel.Color, w*h)
	for i := range pix {
		pix[i] = color
	}
	return pix
}

func TestLayerCountTracksAddAndRemove(t *testing.T) {
	c := New(32, 32, nil)
	if c.LayerCount() != 0 {
		t.Fatalf("expected 0 layers initially, got %d", c.LayerCount())
	}
	l1 := c.AddLayer(0, 0, 8, 8, true)
	c.AddLayer(8, 8, 8, 8, true)
	if c.LayerCount() != 2 {
		t.Fatalf("expected 2 layers, got %d", c.LayerCount())
	}
	c.RemoveLayer(l1.ID)
	if c.LayerCount() != 1 {
		t.Fatalf("expected 1 layer after removal, got %d", c.LayerCount())
	}
}
