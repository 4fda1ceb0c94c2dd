package desktop

import (
	"time"

	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/hittest"
	"github.com/zaynotley/uicompositor/internal/layer"
	"github.com/zaynotley/uicompositor/internal/pixel"
)

const bodyRadius = 6

// renderChrome fully redraws a window's layer: clears to transparent, fills
// the rounded body, outlines it, draws the title bar (top-rounded) with
// traffic lights and title text, then copies the client's content.
func (d *Desktop) renderChrome(w *Window) {
	l := d.Comp.Layer(w.LayerID)
	if l == nil {
		return
	}
	buf := l.Buf
	for i := range buf.Pix {
		buf.Pix[i] = 0
	}
	bodyColor := colorWindowBodyDark
	if d.themeLight {
		bodyColor = colorWindowBodyLight
	}
	if w.IsBorderless() {
		d.copyContent(w, l, 0)
		d.Comp.AddDamage(l.DamageBounds())
		return
	}
	pixel.FillRoundedRect(buf, 0, 0, buf.Stride, buf.Height, bodyRadius, bodyColor)
	pixel.DrawRoundedRectOutline(buf, 0, 0, buf.Stride, buf.Height, bodyRadius, colorTitlebarBlurred)
	d.paintTitlebar(w, buf)
	d.copyContent(w, l, TitleBarHeight)
	d.Comp.AddDamage(l.DamageBounds())
}

// renderTitlebar repaints only the title-bar band, used for unfocus
// repaint and animation ticks to avoid a full chrome redraw.
func (d *Desktop) renderTitlebar(w *Window) {
	if w.IsBorderless() {
		return
	}
	l := d.Comp.Layer(w.LayerID)
	if l == nil {
		return
	}
	d.paintTitlebar(w, l.Buf)
	band := geom.Rect{X: l.X, Y: l.Y, W: l.Buf.Stride, H: TitleBarHeight}
	d.Comp.AddDamage(band)
}

func (d *Desktop) paintTitlebar(w *Window, buf *pixel.Buffer) {
	titleColor := colorTitlebarBlurred
	if w.Focused {
		titleColor = colorTitlebarFocused
	}
	pixel.FillRoundedRectTop(buf, 0, 0, buf.Stride, TitleBarHeight, bodyRadius, titleColor)
	pixel.FillRect(buf, 0, TitleBarHeight-1, buf.Stride, 1, colorTitlebarBlurred)
	d.paintTitleText(buf, w)

	now := time.Now()
	d.paintButton(buf, w, hittest.CloseButton, colorClose, now)
	d.paintButton(buf, w, hittest.MinimizeButton, colorMinimize, now)
	d.paintButton(buf, w, hittest.MaximizeButton, colorMaximize, now)
}

// paintTitleText centers w.Title in the span between the traffic lights and
// the title bar's right edge.
func (d *Desktop) paintTitleText(buf *pixel.Buffer, w *Window) {
	if w.Title == "" {
		return
	}
	left := titleButtonX[2] + TitleBtnSize + 8
	right := buf.Stride - 8
	if right <= left {
		return
	}
	textW := pixel.TextWidth(w.Title)
	x := left + (right-left-textW)/2
	if x < left {
		x = left
	}
	y := (TitleBarHeight - pixel.TextHeight()) / 2
	color := colorTitleTextBlurred
	if w.Focused {
		color = colorTitleTextFocused
	}
	pixel.DrawText(buf, x, y, w.Title, color)
}

func (d *Desktop) paintButton(buf *pixel.Buffer, w *Window, btn hittest.Result, focusedColor pixel.Color, now time.Time) {
	idx := 0
	switch btn {
	case hittest.MinimizeButton:
		idx = 1
	case hittest.MaximizeButton:
		idx = 2
	}
	r := TitleBtnSize / 2
	cx := titleButtonX[idx] + r
	cy := TitleBtnY + r

	color := colorUnfocusedButton
	if w.Focused {
		color = focusedColor
	}
	if v, ok := d.anims.Value(d.buttonAnimID(w.ID, btn), now); ok {
		color = blendTowardHover(color, v)
	}
	pixel.FillCircle(buf, cx, cy, r, color)
}

// blendTowardHover brightens color toward white by half of fraction t in
// [0,1] (t=1 moves each channel halfway to 255), used for the 100-150ms
// hover/press transitions.
func blendTowardHover(c pixel.Color, t float64) pixel.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*t*0.5)
	}
	return pixel.RGBA(c.A(), lerp(c.R()), lerp(c.G()), lerp(c.B()))
}

// copyContent copies the client's SHM surface into the content area
// starting at yOffset. Decorated windows skip alpha-0 pixels to preserve
// chrome already painted; borderless windows copy the entire block
// including alpha.
func (d *Desktop) copyContent(w *Window, l *layer.Layer, yOffset int) {
	if w.ShmID == "" {
		return
	}
	reg, ok := d.Shm.Map(w.ShmID)
	if !ok {
		return
	}
	src := reg.Bytes()
	srcW, srcH := w.ContentW, w.ContentH
	maxPixels := len(src) / 4
	if srcW*srcH > maxPixels {
		srcH = maxPixels / maxInt(srcW, 1)
	}
	buf := l.Buf
	decorated := !w.IsBorderless()
	for y := 0; y < srcH && yOffset+y < buf.Height; y++ {
		for x := 0; x < srcW && x < buf.Stride; x++ {
			off := (y*srcW + x) * 4
			px := pixel.RGBA(src[off+3], src[off+2], src[off+1], src[off])
			if decorated && px.A() == 0 {
				continue
			}
			buf.Pix[(yOffset+y)*buf.Stride+x] = px
		}
	}
}
