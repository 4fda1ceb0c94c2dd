// Package compositor implements an ordered layer stack, a back buffer,
// damage-limited compose, an optional GPU command stream, and an optional
// hardware cursor channel. Compose walks layers bottom-to-top per damage
// rect: each layer blends, or outright replaces when it is opaque with a
// fully-opaque pixel, whatever the layers beneath it already wrote.
package compositor

import (
	"github.com/zaynotley/uicompositor/internal/cursor"
	"github.com/zaynotley/uicompositor/internal/damage"
	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/gpu2d"
	"github.com/zaynotley/uicompositor/internal/layer"
	"github.com/zaynotley/uicompositor/internal/pixel"
)

// Framebuffer is a linear ARGB8888 region the host display backend exposes
// for the compositor to write rows into.
type Framebuffer interface {
	Width() int
	Height() int
	// WriteRect copies w*h pixels from src (row-major, stride==w) to the
	// framebuffer at (x,y), row by row.
	WriteRect(x, y, w, h int, src []pixel.Color)
}

// Compositor owns the layer stack and back buffer. It is not goroutine-safe
// on its own; the scheduler's shared mutex serializes all access.
type Compositor struct {
	screenW, screenH int
	back             *pixel.Buffer
	layers           []*layer.Layer
	damage           *damage.Tracker
	nextLayerID      uint32

	gpu gpu2d.Stream

	hwCursorEnabled bool
	cursorBitmap    cursor.Bitmap
	cursorX, cursorY int

	// cursorSaved* back the software-cursor fallback: the back-buffer pixels
	// beneath the last-drawn cursor, so the next compose can restore them
	// before redrawing at the new position instead of smearing.
	cursorSaved      []pixel.Color
	cursorSavedRect  geom.Rect
	cursorSavedValid bool

	resizeOutline *geom.Rect

	focusedLayer *uint32

	useGradientBackground bool
}

func New(screenW, screenH int, gpu gpu2d.Stream) *Compositor {
	return &Compositor{
		screenW: screenW,
		screenH: screenH,
		back:    pixel.NewBuffer(screenW, screenH),
		damage:  damage.New(),
		gpu:     gpu,
	}
}

func (c *Compositor) BackBuffer() *pixel.Buffer { return c.back }
func (c *Compositor) ScreenSize() (w, h int)    { return c.screenW, c.screenH }

// AddLayer allocates a zeroed pixel buffer, inserts it at the top of the
// stack, and damages its bounds.
func (c *Compositor) AddLayer(x, y, w, h int, opaque bool) *layer.Layer {
	c.nextLayerID++
	l := layer.New(c.nextLayerID, x, y, w, h, opaque)
	c.layers = append(c.layers, l)
	c.damage.Add(l.DamageBounds(), c.screenW, c.screenH)
	return l
}

// AddLayerWithPixels transfers a pre-rendered buffer into a new top layer
// without re-zeroing it: the fast path for expensive chrome pre-render
// performed outside the lock.
func (c *Compositor) AddLayerWithPixels(x, y int, pre *pixel.Buffer, opaque bool) *layer.Layer {
	c.nextLayerID++
	l := &layer.Layer{ID: c.nextLayerID, X: x, Y: y, Buf: pre, Visible: true, Opaque: opaque}
	c.layers = append(c.layers, l)
	c.damage.Add(l.DamageBounds(), c.screenW, c.screenH)
	return l
}

func (c *Compositor) findLayer(id uint32) (int, *layer.Layer) {
	for i, l := range c.layers {
		if l.ID == id {
			return i, l
		}
	}
	return -1, nil
}

// RemoveLayer removes a layer and damages its (shadow-expanded) bounds.
func (c *Compositor) RemoveLayer(id uint32) {
	i, l := c.findLayer(id)
	if l == nil {
		return
	}
	c.damage.Add(l.DamageBounds(), c.screenW, c.screenH)
	c.layers = append(c.layers[:i], c.layers[i+1:]...)
}

// RaiseLayer moves a layer to the top of the stack.
func (c *Compositor) RaiseLayer(id uint32) {
	i, l := c.findLayer(id)
	if l == nil || i == len(c.layers)-1 {
		return
	}
	c.damage.Add(l.DamageBounds(), c.screenW, c.screenH)
	c.layers = append(c.layers[:i], c.layers[i+1:]...)
	c.layers = append(c.layers, l)
}

// ResizeLayer reallocates a layer's buffer and damages old+new bounds.
func (c *Compositor) ResizeLayer(id uint32, w, h int) {
	_, l := c.findLayer(id)
	if l == nil {
		return
	}
	before, after := l.Resize(w, h)
	c.damage.Add(before, c.screenW, c.screenH)
	c.damage.Add(after, c.screenW, c.screenH)
}

// MoveLayer moves a layer and damages old+new bounds.
func (c *Compositor) MoveLayer(id uint32, x, y int) {
	_, l := c.findLayer(id)
	if l == nil {
		return
	}
	before, after := l.MoveTo(x, y)
	c.damage.Add(before, c.screenW, c.screenH)
	c.damage.Add(after, c.screenW, c.screenH)
}

// MarkLayerDirty sets a layer's dirty flag without itself adding damage.
func (c *Compositor) MarkLayerDirty(id uint32) {
	_, l := c.findLayer(id)
	if l != nil {
		l.Dirty = true
	}
}

func (c *Compositor) Layer(id uint32) *layer.Layer {
	_, l := c.findLayer(id)
	return l
}

// LayerCount reports the number of layers currently in the stack.
func (c *Compositor) LayerCount() int { return len(c.layers) }

// SetFocusedLayer is purely a chrome hint; it never affects compose.
func (c *Compositor) SetFocusedLayer(id *uint32) { c.focusedLayer = id }

func (c *Compositor) DamageAll()                  { c.damage.DamageAll() }
func (c *Compositor) AddDamage(r geom.Rect)        { c.damage.Add(r, c.screenW, c.screenH) }
func (c *Compositor) SetResizeOutline(r *geom.Rect) { c.resizeOutline = r }
func (c *Compositor) UseGradientBackground(v bool)  { c.useGradientBackground = v }
func (c *Compositor) GradientBackgroundActive() bool { return c.useGradientBackground }

func (c *Compositor) EnableHWCursor()        { c.hwCursorEnabled = true }
func (c *Compositor) HasHWCursor() bool      { return c.hwCursorEnabled && c.gpu != nil && c.gpu.Enabled() }
func (c *Compositor) DefineHWCursor(b cursor.Bitmap) {
	c.cursorBitmap = b
	if c.gpu != nil {
		c.gpu.Push(gpu2d.Command{Kind: gpu2d.CursorDefine, W: b.W, H: b.H, HX: b.HX, HY: b.HY, CursorPixels: b.Pix})
	}
}
func (c *Compositor) MoveHWCursor(x, y int) {
	c.cursorX, c.cursorY = x, y
	if c.gpu != nil {
		c.gpu.Push(gpu2d.Command{Kind: gpu2d.CursorMove, X: x, Y: y})
	}
}

// FlushGPU pumps any pending cursor/rect commands even when damage is
// empty.
func (c *Compositor) FlushGPU() {
	if c.gpu != nil {
		c.gpu.Flush()
	}
}

// Resize handles a resolution change: reallocates the back buffer and
// clamps any tracked cursor position. Callers are responsible for resizing
// the background/menubar layers and scheduling a deferred wallpaper reload
// outside the lock.
func (c *Compositor) Resize(w, h int) {
	c.screenW, c.screenH = w, h
	c.back = pixel.NewBuffer(w, h)
	if c.cursorX >= w {
		c.cursorX = w - 1
	}
	if c.cursorY >= h {
		c.cursorY = h - 1
	}
	c.cursorSavedValid = false
	c.damage.DamageAll()
}

// Compose runs one compose cycle, overlays the software cursor when no
// hardware cursor channel is available, and flushes every touched region to
// fb. Returns the list of rects actually flushed.
func (c *Compositor) Compose(fb Framebuffer) []geom.Rect {
	softwareCursor := !c.HasHWCursor() && c.cursorBitmap.W > 0 && c.cursorBitmap.H > 0

	var extra []geom.Rect
	if softwareCursor && c.cursorSavedValid {
		extra = append(extra, c.restoreCursorUnder())
	}

	damageEmpty := c.damage.IsEmpty()
	if damageEmpty && len(extra) == 0 && !softwareCursor {
		c.FlushGPU()
		return nil
	}

	var regions []geom.Rect
	if !damageEmpty {
		regions = c.damage.TakeRegions(c.screenW, c.screenH)
		for _, r := range regions {
			c.paintRegion(r)
		}
	}

	if softwareCursor {
		if r := c.paintSoftwareCursorOverlay(); !r.Empty() {
			extra = append(extra, r)
		}
	}

	all := append(regions, extra...)
	for _, r := range all {
		c.flushRegion(fb, r)
	}
	c.FlushGPU()
	return all
}

// paintRegion recomposes r from the bottom of the stack upward, per
// §4.4.1: each layer blends (or, if opaque with a fully-opaque pixel,
// replaces) whatever the layers below it have already written, so the
// result is always equivalent to compositing the full screen from scratch.
func (c *Compositor) paintRegion(r geom.Rect) {
	for _, l := range c.layers {
		if !l.Visible {
			continue
		}
		bounds := l.DamageBounds()
		if !bounds.Intersects(r) {
			continue
		}
		if l.Shadow {
			c.paintShadow(r, l)
		}
		overlap := l.Bounds().Intersect(r)
		if overlap.Empty() {
			continue
		}
		for py := overlap.Y; py < overlap.Bottom(); py++ {
			for px := overlap.X; px < overlap.Right(); px++ {
				sp := l.Buf.Pix[(py-l.Y)*l.Buf.Stride+(px-l.X)]
				if l.Opaque && sp.A() == 255 {
					c.back.Pix[py*c.back.Stride+px] = sp
					continue
				}
				dst := c.back.Pix[py*c.back.Stride+px]
				c.back.Pix[py*c.back.Stride+px] = pixel.AlphaBlend(sp, dst)
			}
		}
	}
	if c.resizeOutline != nil {
		pixel.DrawRoundedRectOutline(c.back, c.resizeOutline.X, c.resizeOutline.Y, c.resizeOutline.W, c.resizeOutline.H, 0, pixel.RGBA(200, 120, 160, 220))
	}
}

// paintShadow applies a falloff into the band between a layer's body and
// its shadow-expanded bounds, clipped to the region being repainted.
func (c *Compositor) paintShadow(r geom.Rect, l *layer.Layer) {
	expanded := l.DamageBounds().Intersect(r)
	body := l.Bounds()
	shadowColor := pixel.RGBA(90, 0, 0, 0)
	for py := expanded.Y; py < expanded.Bottom(); py++ {
		for px := expanded.X; px < expanded.Right(); px++ {
			if body.Contains(px, py) {
				continue
			}
			dst := c.back.Pix[py*c.back.Stride+px]
			c.back.Pix[py*c.back.Stride+px] = pixel.AlphaBlend(shadowColor, dst)
		}
	}
}

func (c *Compositor) flushRegion(fb Framebuffer, r geom.Rect) {
	if c.gpu != nil && c.gpu.Enabled() {
		c.gpu.Push(gpu2d.Command{Kind: gpu2d.RectCopy, X: r.X, Y: r.Y, W: r.W, H: r.H})
		return
	}
	rowBuf := make([]pixel.Color, r.W)
	for py := r.Y; py < r.Bottom(); py++ {
		copy(rowBuf, c.back.Pix[py*c.back.Stride+r.X:py*c.back.Stride+r.Right()])
		fb.WriteRect(r.X, py, r.W, 1, rowBuf)
	}
}

// cursorBounds returns the current cursor bitmap's on-screen rect, clipped
// to the screen, or an empty rect if no bitmap is defined.
func (c *Compositor) cursorBounds() geom.Rect {
	b := c.cursorBitmap
	if b.W == 0 || b.H == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{X: c.cursorX - b.HX, Y: c.cursorY - b.HY, W: b.W, H: b.H}
	return r.ClipToScreen(c.screenW, c.screenH)
}

// restoreCursorUnder puts back the pixels saved beneath the cursor's last
// drawn position, undoing the previous compose's overlay, and returns the
// restored rect so the caller flushes it even though nothing else damaged
// that area this cycle.
func (c *Compositor) restoreCursorUnder() geom.Rect {
	r := c.cursorSavedRect
	i := 0
	for py := r.Y; py < r.Bottom(); py++ {
		for px := r.X; px < r.Right(); px++ {
			c.back.Pix[py*c.back.Stride+px] = c.cursorSaved[i]
			i++
		}
	}
	c.cursorSavedValid = false
	return r
}

// paintSoftwareCursorOverlay saves the back-buffer pixels beneath the
// cursor's current position, then alpha-blends the cursor bitmap over them.
// Used only when no hardware cursor channel is available (§4.4.2).
func (c *Compositor) paintSoftwareCursorOverlay() geom.Rect {
	r := c.cursorBounds()
	if r.Empty() {
		return r
	}
	saved := make([]pixel.Color, r.W*r.H)
	i := 0
	for py := r.Y; py < r.Bottom(); py++ {
		for px := r.X; px < r.Right(); px++ {
			saved[i] = c.back.Pix[py*c.back.Stride+px]
			i++
		}
	}
	c.cursorSaved = saved
	c.cursorSavedRect = r
	c.cursorSavedValid = true

	b := c.cursorBitmap
	ox, oy := c.cursorX-b.HX, c.cursorY-b.HY
	for row := 0; row < b.H; row++ {
		py := oy + row
		if py < r.Y || py >= r.Bottom() {
			continue
		}
		for col := 0; col < b.W; col++ {
			px := ox + col
			if px < r.X || px >= r.Right() {
				continue
			}
			sp := b.Pix[row*b.W+col]
			if sp.A() == 0 {
				continue
			}
			dst := c.back.Pix[py*c.back.Stride+px]
			c.back.Pix[py*c.back.Stride+px] = pixel.AlphaBlend(sp, dst)
		}
	}
	return r
}
