// Package desktop implements the window manager: the window list, chrome
// rendering, focus/z-order, drag/resize, hit-testing, menubar coordination,
// and process-exit cleanup.
package desktop

import (
	"github.com/zaynotley/uicompositor/internal/eventqueue"
	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

const (
	TitleBarHeight  = 28
	TitleBtnSize    = 12
	TitleBtnY       = 8
	TitleBtnSpacing = 20
	MinWidth        = 100
	MinHeight       = 60
	ResizeBorder    = 4
)

// titleButtonX holds the left-edge x offsets of the close/minimize/maximize
// circles within a title bar.
var titleButtonX = [3]int{8, 28, 48}

// ResizeProtocolState is the two-phase handshake state a window's resize
// protocol is in: Normal -> ResizePending -> Normal.
type ResizeProtocolState int

const (
	ResizeNormal ResizeProtocolState = iota
	ResizePending
)

// Window is a single managed window.
type Window struct {
	ID       uint32
	OwnerTid uint32
	Title    string
	Flags    uint32

	X, Y               int
	ContentW, ContentH int

	LayerID uint32
	ShmID   string

	Focused   bool
	Maximized bool
	SavedX, SavedY, SavedContentW, SavedContentH int

	Queue *eventqueue.Queue

	ResizeState ResizeProtocolState
}

func NewWindow(id, ownerTid uint32, x, y, w, h int, flags uint32, layerID uint32, shmID string) *Window {
	return &Window{
		ID:       id,
		OwnerTid: ownerTid,
		X:        x,
		Y:        y,
		ContentW: w,
		ContentH: h,
		Flags:    flags,
		LayerID:  layerID,
		ShmID:    shmID,
		Queue:    eventqueue.New(),
	}
}

func (w *Window) IsBorderless() bool    { return w.Flags&wsproto.FlagBorderless != 0 }
func (w *Window) IsResizable() bool     { return w.Flags&wsproto.FlagNotResizable == 0 && !w.Maximized }
func (w *Window) IsAlwaysOnTop() bool   { return w.Flags&wsproto.FlagAlwaysOnTop != 0 }

// FullHeight is the window's total screen-space height including the title
// bar, unless borderless.
func (w *Window) FullHeight() int {
	if w.IsBorderless() {
		return w.ContentH
	}
	return w.ContentH + TitleBarHeight
}

func (w *Window) FullWidth() int { return w.ContentW }

// Bounds is the window's full screen-space rectangle (chrome included).
func (w *Window) Bounds() geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y, W: w.FullWidth(), H: w.FullHeight()}
}
