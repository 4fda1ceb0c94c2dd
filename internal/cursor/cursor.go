// Package cursor defines the closed set of cursor shapes and generates each
// one's fixed-size ARGB bitmap and hotspot. The pixel art is generated
// procedurally rather than reproduced byte-for-byte.
package cursor

import (
	"github.com/zaynotley/uicompositor/internal/hittest"
	"github.com/zaynotley/uicompositor/internal/pixel"
)

type Shape int

const (
	Arrow Shape = iota
	ResizeNS
	ResizeEW
	ResizeNWSE
	ResizeNESW
	Move
)

// Bitmap is a fixed-size ARGB cursor image with a hotspot relative to its
// own origin.
type Bitmap struct {
	W, H   int
	HX, HY int
	Pix    []pixel.Color
}

var white = pixel.RGBA(255, 255, 255, 255)
var black = pixel.RGBA(255, 0, 0, 0)

// All returns the fixed bitmap for shape. Any value outside the constants
// above falls back to the arrow bitmap.
func All(shape Shape) Bitmap {
	switch shape {
	case Arrow:
		return arrowBitmap()
	case ResizeNS:
		return doubleArrowBitmap(11, 16, 5, 8, true)
	case ResizeEW:
		return doubleArrowBitmap(16, 11, 8, 5, false)
	case ResizeNWSE:
		return diagonalArrowBitmap(14, 14, 7, 7, true)
	case ResizeNESW:
		return diagonalArrowBitmap(14, 14, 7, 7, false)
	case Move:
		return moveBitmap(15, 15, 7, 7)
	}
	return arrowBitmap()
}

func blank(w, h int) []pixel.Color {
	return make([]pixel.Color, w*h)
}

func set(buf []pixel.Color, w, x, y int, c pixel.Color) {
	if x < 0 || y < 0 {
		return
	}
	buf[y*w+x] = c
}

// arrowBitmap draws a classic top-left-pointing arrow, outlined in black
// with a white fill, hotspot at the tip.
func arrowBitmap() Bitmap {
	const w, h = 12, 18
	buf := blank(w, h)
	for y := 0; y < h-6; y++ {
		for x := 0; x <= y && x < w; x++ {
			c := white
			if x == 0 || x == y {
				c = black
			}
			set(buf, w, x, y, c)
		}
	}
	return Bitmap{W: w, H: h, HX: 0, HY: 0, Pix: buf}
}

// doubleArrowBitmap draws a two-headed arrow either vertically (ns) or
// horizontally.
func doubleArrowBitmap(w, h, hx, hy int, vertical bool) Bitmap {
	buf := blank(w, h)
	if vertical {
		cx := w / 2
		for y := 0; y < h; y++ {
			set(buf, w, cx, y, black)
		}
		headLen := w / 2
		for i := 0; i < headLen; i++ {
			set(buf, w, cx-i, i, black)
			set(buf, w, cx+i, i, black)
			set(buf, w, cx-i, h-1-i, black)
			set(buf, w, cx+i, h-1-i, black)
		}
	} else {
		cy := h / 2
		for x := 0; x < w; x++ {
			set(buf, w, x, cy, black)
		}
		headLen := h / 2
		for i := 0; i < headLen; i++ {
			set(buf, w, i, cy-i, black)
			set(buf, w, i, cy+i, black)
			set(buf, w, w-1-i, cy-i, black)
			set(buf, w, w-1-i, cy+i, black)
		}
	}
	return Bitmap{W: w, H: h, HX: hx, HY: hy, Pix: buf}
}

// diagonalArrowBitmap draws a double-headed diagonal arrow along the main
// (nwse) or anti (nesw) diagonal.
func diagonalArrowBitmap(w, h, hx, hy int, mainDiagonal bool) Bitmap {
	buf := blank(w, h)
	for i := 0; i < w && i < h; i++ {
		if mainDiagonal {
			set(buf, w, i, i, black)
		} else {
			set(buf, w, w-1-i, i, black)
		}
	}
	headLen := w / 3
	for i := 0; i < headLen; i++ {
		if mainDiagonal {
			set(buf, w, i, headLen-i, black)
			set(buf, w, headLen-i, i, black)
			set(buf, w, w-1-i, h-1-headLen+i, black)
			set(buf, w, w-1-headLen+i, h-1-i, black)
		} else {
			set(buf, w, w-1-i, headLen-i, black)
			set(buf, w, w-1-headLen+i, i, black)
			set(buf, w, i, h-1-headLen+i, black)
			set(buf, w, headLen-i, h-1-i, black)
		}
	}
	return Bitmap{W: w, H: h, HX: hx, HY: hy, Pix: buf}
}

// moveBitmap draws a four-directional move cursor (plus with arrowheads),
// hotspot at center.
func moveBitmap(w, h, hx, hy int) Bitmap {
	buf := blank(w, h)
	cx, cy := w/2, h/2
	for x := 0; x < w; x++ {
		set(buf, w, x, cy, black)
	}
	for y := 0; y < h; y++ {
		set(buf, w, cx, y, black)
	}
	arm := w / 4
	for i := 0; i < arm; i++ {
		set(buf, w, i, cy-i, black)
		set(buf, w, i, cy+i, black)
		set(buf, w, w-1-i, cy-i, black)
		set(buf, w, w-1-i, cy+i, black)
		set(buf, w, cx-i, i, black)
		set(buf, w, cx+i, i, black)
		set(buf, w, cx-i, h-1-i, black)
		set(buf, w, cx+i, h-1-i, black)
	}
	return Bitmap{W: w, H: h, HX: hx, HY: hy, Pix: buf}
}

// ForHitTest maps a window-edge/drag hit-test result to the cursor shape it
// should display.
func ForHitTest(dragging, resizing bool, hit hittest.Result) Shape {
	if dragging {
		return Move
	}
	if resizing || hit.IsResizeEdge() {
		switch hit {
		case hittest.EdgeTop, hittest.EdgeBottom:
			return ResizeNS
		case hittest.EdgeLeft, hittest.EdgeRight:
			return ResizeEW
		case hittest.EdgeTopLeft, hittest.EdgeBottomRight:
			return ResizeNWSE
		case hittest.EdgeTopRight, hittest.EdgeBottomLeft:
			return ResizeNESW
		}
	}
	return Arrow
}
