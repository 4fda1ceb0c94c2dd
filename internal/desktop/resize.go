package desktop

import "github.com/zaynotley/uicompositor/internal/hittest"

// ResizeAnchor captures the mouse-down state a resize is computed relative
// to.
type ResizeAnchor struct {
	StartX, StartY, StartW, StartH int
	Edge                           hittest.Result
}

// ComputeResize applies the edge-resize formula for a mouse delta (dx,dy)
// since mouse-down, clamped to the minimum window size. The result always
// satisfies w>=MinWidth, h>=MinHeight; the Left edge keeps
// x+w == StartX+StartW; the Top edge keeps y+h == StartY+StartH.
func ComputeResize(a ResizeAnchor, dx, dy int) (x, y, w, h int) {
	x, y, w, h = a.StartX, a.StartY, a.StartW, a.StartH

	left := a.Edge == hittest.EdgeLeft || a.Edge == hittest.EdgeTopLeft || a.Edge == hittest.EdgeBottomLeft
	right := a.Edge == hittest.EdgeRight || a.Edge == hittest.EdgeTopRight || a.Edge == hittest.EdgeBottomRight
	top := a.Edge == hittest.EdgeTop || a.Edge == hittest.EdgeTopLeft || a.Edge == hittest.EdgeTopRight
	bottom := a.Edge == hittest.EdgeBottom || a.Edge == hittest.EdgeBottomLeft || a.Edge == hittest.EdgeBottomRight

	switch {
	case right:
		w = maxInt(MinWidth, a.StartW+dx)
	case left:
		newW := maxInt(MinWidth, a.StartW-dx)
		x = a.StartX + a.StartW - newW
		w = newW
	}
	switch {
	case bottom:
		h = maxInt(MinHeight, a.StartH+dy)
	case top:
		newH := maxInt(MinHeight, a.StartH-dy)
		y = a.StartY + a.StartH - newH
		h = newH
	}
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
