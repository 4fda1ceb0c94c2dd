package desktop

import "github.com/zaynotley/uicompositor/internal/hittest"

// HitTest classifies a screen point against a window's chrome: the 4px
// resize border (corners taking precedence over single edges) is tested
// before title-bar buttons, which are tested before a bare
// TitleBar/Content result.
func HitTest(w *Window, px, py int) hittest.Result {
	lx, ly := px-w.X, py-w.Y
	fw, fh := w.FullWidth(), w.FullHeight()
	if lx < 0 || lx >= fw || ly < 0 || ly >= fh {
		return hittest.None
	}
	if w.IsBorderless() {
		return hittest.Content
	}
	if w.IsResizable() {
		if r := resizeEdgeHit(lx, ly, fw, fh); r != hittest.None {
			return r
		}
	}
	if ly < TitleBarHeight {
		if b := titleButtonHit(lx, ly); b != hittest.None {
			return b
		}
		return hittest.TitleBar
	}
	return hittest.Content
}

func resizeEdgeHit(lx, ly, fw, fh int) hittest.Result {
	left := lx < ResizeBorder
	right := lx >= fw-ResizeBorder
	top := ly < ResizeBorder
	bottom := ly >= fh-ResizeBorder
	switch {
	case top && left:
		return hittest.EdgeTopLeft
	case top && right:
		return hittest.EdgeTopRight
	case bottom && left:
		return hittest.EdgeBottomLeft
	case bottom && right:
		return hittest.EdgeBottomRight
	case top:
		return hittest.EdgeTop
	case bottom:
		return hittest.EdgeBottom
	case left:
		return hittest.EdgeLeft
	case right:
		return hittest.EdgeRight
	}
	return hittest.None
}

// titleButtonHit tests the three traffic-light circles, radius
// TitleBtnSize/2, centered at (titleButtonX[i]+r, TitleBtnY+r).
func titleButtonHit(lx, ly int) hittest.Result {
	r := TitleBtnSize / 2
	for i, bx := range titleButtonX {
		cx := bx + r
		cy := TitleBtnY + r
		dx, dy := lx-cx, ly-cy
		if dx*dx+dy*dy <= r*r {
			switch i {
			case 0:
				return hittest.CloseButton
			case 1:
				return hittest.MinimizeButton
			case 2:
				return hittest.MaximizeButton
			}
		}
	}
	return hittest.None
}
