package desktop

import (
	"testing"
	"time"

	"github.com/zaynotley/uicompositor/internal/compositor"
	"github.com/zaynotley/uicompositor/internal/cursor"
	"github.com/zaynotley/uicompositor/internal/hittest"
	"github.com/zaynotley/uicompositor/internal/pixel"
	"github.com/zaynotley/uicompositor/internal/wsproto"
	"go.uber.org/zap"
)

func newTestDesktop(t *testing.T) *Desktop {
	t.Helper()
	comp := compositor.New(800, 600, nil)
	return New(comp, 800, 600, zap.NewNop().Sugar())
}

// newTestWindow mirrors the pre-render-outside-the-lock fast path real
// callers use: a zeroed buffer sized for chrome plus content.
func newTestWindow(d *Desktop, w, h int) *Window {
	pre := pixel.NewBuffer(w, h+TitleBarHeight)
	return d.CreateWindow(1, w, h, 0, "", pre)
}

func TestTitleBarDragMovesWindow(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 200, 150)
	win.X, win.Y = 100, 100

	m := &MouseState{X: win.X + 60, Y: win.Y + 10}
	now := time.Now()
	d.HandleMouseButton(m, true, now)
	if !d.drag.active || d.drag.windowID != win.ID {
		t.Fatalf("title-bar mouse-down must start a drag, got %+v", d.drag)
	}

	d.ApplyMouseMove(m, 30, 5, now)
	if win.X != 130 || win.Y != 105 {
		t.Fatalf("drag must translate the window by the mouse delta, got (%d,%d)", win.X, win.Y)
	}

	d.HandleMouseButton(m, false, now)
	if d.drag.active {
		t.Fatal("mouse-up must end the drag")
	}
}

func TestResizeEdgeDragEmitsResizeEventOnRelease(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 400, 300)
	win.X, win.Y = 0, 30

	m := &MouseState{X: win.X + win.FullWidth() - 1, Y: win.Y + 150}
	now := time.Now()
	d.HandleMouseButton(m, true, now)
	if !d.resize.active {
		t.Fatal("mouse-down on the right edge must start a resize")
	}

	d.ApplyMouseMove(m, 100, 0, now)
	d.HandleMouseButton(m, false, now)

	msgs := win.Queue.Drain()
	var gotResize bool
	for _, msg := range msgs {
		if msg.Op == wsproto.EvtResize {
			gotResize = true
			if msg.B != 500 {
				t.Fatalf("expected resized width 500, got %d", msg.B)
			}
		}
	}
	if !gotResize {
		t.Fatal("releasing a resize drag must emit EvtResize")
	}
	if win.ResizeState != ResizePending {
		t.Fatalf("window must enter ResizePending after EvtResize, got %v", win.ResizeState)
	}
}

func TestCloseButtonClickEmitsWindowClose(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 400, 300)
	win.X, win.Y = 100, 100

	m := &MouseState{X: win.X + 8 + 6, Y: win.Y + 8 + 6}
	d.HandleMouseButton(m, true, time.Now())

	msgs := win.Queue.Drain()
	if len(msgs) != 1 || msgs[0].Op != wsproto.EvtWindowClose || msgs[0].A != win.ID {
		t.Fatalf("expected a single EvtWindowClose for this window, got %+v", msgs)
	}
}

func TestContentClickForwardsMouseDownWithLocalCoords(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 400, 300)
	win.X, win.Y = 0, 0

	m := &MouseState{X: 50, Y: TitleBarHeight + 20}
	d.HandleMouseButton(m, true, time.Now())

	msgs := win.Queue.Drain()
	if len(msgs) != 1 || msgs[0].Op != wsproto.EvtMouseDown {
		t.Fatalf("expected a forwarded EvtMouseDown, got %+v", msgs)
	}
	if msgs[0].B != 50 || msgs[0].C != 20 {
		t.Fatalf("expected local coords (50,20), got (%d,%d)", msgs[0].B, msgs[0].C)
	}
}

func TestCursorShapeFollowsResizeEdge(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 400, 300)
	win.X, win.Y = 0, 30

	m := &MouseState{X: win.X + win.FullWidth() - 1, Y: win.Y + 150}
	d.ApplyMouseMove(m, 0, 0, time.Now())
	if d.cursorShape != cursor.ForHitTest(false, false, hittest.EdgeRight) {
		t.Fatalf("cursor must switch to the right-edge resize shape, got %v", d.cursorShape)
	}
}
