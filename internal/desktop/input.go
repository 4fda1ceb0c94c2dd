// Input routing: coalesces mouse motion, resolves hit-tests into
// drag/resize/button/menubar actions, and forwards the resulting
// higher-level events into the appropriate window's event queue. Kept in
// the desktop package because every action it resolves is itself a window
// manager state mutation, not separable without an artificial interface
// boundary.
package desktop

import (
	"time"

	"github.com/zaynotley/uicompositor/internal/anim"
	"github.com/zaynotley/uicompositor/internal/cursor"
	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/hittest"
	"github.com/zaynotley/uicompositor/internal/menubar"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

const hoverAnimDuration = 150 * time.Millisecond

// MouseState tracks accumulated pointer position and button state across
// raw input batches.
type MouseState struct {
	X, Y    int
	Buttons uint32
}

// ApplyMouseMove applies one coalesced batch of mouse motion: drag/resize
// tracking, cursor-shape updates, button-hover-animation tracking, and a
// forwarded MOUSE_MOVE to the hit window. Returns whether a compose is
// needed.
func (d *Desktop) ApplyMouseMove(m *MouseState, dx, dy int, now time.Time) bool {
	m.X += dx
	m.Y += dy
	m.X, m.Y = clamp(m.X, 0, d.screenW-1), clamp(m.Y, 0, d.screenH-1)

	needsCompose := false

	if d.drag.active {
		d.applyDrag(m)
		needsCompose = true
	} else if d.resize.active {
		d.applyResizeMotion(m)
		needsCompose = true
	}

	w, hit := d.HitTestAt(m.X, m.Y)
	shape := cursor.ForHitTest(d.drag.active, d.resize.active, hit)
	if shape != d.cursorShape {
		d.cursorShape = shape
		// DefineHWCursor always records the bitmap: the GPU command only goes
		// out when a GPU stream exists, but the software-cursor fallback in
		// Compositor.Compose needs the current bitmap regardless of whether a
		// hardware cursor channel is active.
		d.Comp.DefineHWCursor(cursor.All(shape))
		needsCompose = true
	}
	d.Comp.MoveHWCursor(m.X, m.Y)

	d.updateButtonHover(w, hit, now)

	if w != nil && hit == hittest.Content {
		lx, ly := m.X-w.X, m.Y-w.Y-TitleBarHeight
		w.Queue.Push(wsproto.Message{Op: wsproto.EvtMouseMove, A: uint32(w.ID), B: uint32(lx), C: uint32(ly)})
	}

	return needsCompose
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (d *Desktop) applyDrag(m *MouseState) {
	w := d.windowByID(d.drag.windowID)
	if w == nil {
		d.drag.active = false
		return
	}
	nx := m.X - d.drag.grabOffsetX
	ny := m.Y - d.drag.grabOffsetY
	w.X, w.Y = nx, ny
	l := d.Comp.Layer(w.LayerID)
	before, after := l.MoveTo(nx, ny)
	d.Comp.AddDamage(before)
	d.Comp.AddDamage(after)
}

func (d *Desktop) applyResizeMotion(m *MouseState) {
	a := d.resize.anchor
	dx := m.X - d.resize.startMouseX
	dy := m.Y - d.resize.startMouseY
	x, y, w, h := ComputeResize(a, dx, dy)
	outline := geom.Rect{X: x, Y: y, W: w, H: h}
	d.Comp.SetResizeOutline(&outline)
	d.Comp.AddDamage(outline.Expand(2))
}

func (d *Desktop) updateButtonHover(w *Window, hit hittest.Result, now time.Time) {
	if d.hover.windowID == hoveredButtonWindowID(w, hit) && d.hover.button == hit {
		return
	}
	if d.hover.windowID != 0 {
		d.anims.Start(d.buttonAnimID(d.hover.windowID, d.hover.button), 1, 0, now, hoverAnimDuration, anim.EaseOutQuad)
	}
	if w != nil && hit.IsButton() {
		d.hover.windowID = w.ID
		d.hover.button = hit
		d.anims.Start(d.buttonAnimID(w.ID, hit), 0, 1, now, hoverAnimDuration, anim.EaseOutQuad)
	} else {
		d.hover.windowID = 0
		d.hover.button = hittest.None
	}
}

func hoveredButtonWindowID(w *Window, hit hittest.Result) uint32 {
	if w != nil && hit.IsButton() {
		return w.ID
	}
	return 0
}

// HandleMouseButton dispatches a mouse-down to the menubar/dropdown,
// traffic-light buttons, title-bar drag start, resize-edge start, or focus
// plus a forwarded MOUSE_DOWN; a mouse-up completes any in-progress
// drag/resize.
func (d *Desktop) HandleMouseButton(m *MouseState, down bool, now time.Time) {
	if !down {
		d.handleMouseUp(m)
		return
	}
	if d.Menu.IsDropdownOpen() {
		d.dispatchDropdownClick(m)
		return
	}
	if m.Y < menubar.Height {
		d.dispatchMenubarClick(m)
		return
	}
	w, hit := d.HitTestAt(m.X, m.Y)
	if w == nil {
		return
	}
	switch {
	case hit == hittest.CloseButton:
		w.Queue.Push(wsproto.Message{Op: wsproto.EvtWindowClose, A: w.ID})
		d.anims.Start(d.buttonAnimID(w.ID, hit), 1, 0.3, now, hoverAnimDuration, anim.EaseOutQuad)
	case hit == hittest.MinimizeButton, hit == hittest.MaximizeButton:
		if hit == hittest.MaximizeButton {
			d.ToggleMaximize(w.ID)
		}
		d.anims.Start(d.buttonAnimID(w.ID, hit), 1, 0.3, now, hoverAnimDuration, anim.EaseOutQuad)
	case hit == hittest.TitleBar:
		d.FocusWindow(w.ID)
		l := d.Comp.Layer(w.LayerID)
		l.SetShadow(false)
		d.drag = dragState{active: true, windowID: w.ID, grabOffsetX: m.X - w.X, grabOffsetY: m.Y - w.Y}
	case hit.IsResizeEdge() && w.IsResizable():
		d.resize = resizeState{active: true, windowID: w.ID, startMouseX: m.X, startMouseY: m.Y, anchor: ResizeAnchor{
			StartX: w.X, StartY: w.Y, StartW: w.FullWidth(), StartH: w.FullHeight(), Edge: hit,
		}}
	default:
		d.FocusWindow(w.ID)
		lx, ly := m.X-w.X, m.Y-w.Y-TitleBarHeight
		w.Queue.Push(wsproto.Message{Op: wsproto.EvtMouseDown, A: w.ID, B: uint32(lx), C: uint32(ly), D: m.Buttons})
	}
}

func (d *Desktop) handleMouseUp(m *MouseState) {
	if d.drag.active {
		if w := d.windowByID(d.drag.windowID); w != nil {
			d.Comp.Layer(w.LayerID).SetShadow(true)
		}
		d.drag = dragState{}
		return
	}
	if d.resize.active {
		w := d.windowByID(d.resize.windowID)
		d.Comp.SetResizeOutline(nil)
		if w != nil {
			a := d.resize.anchor
			dx := m.X - d.resize.startMouseX
			dy := m.Y - d.resize.startMouseY
			x, y, fw, fh := ComputeResize(a, dx, dy)
			contentH := fh
			if !w.IsBorderless() {
				contentH = fh - TitleBarHeight
			}
			w.X, w.Y = x, y
			w.Queue.Push(wsproto.Message{Op: wsproto.EvtResize, A: w.ID, B: uint32(fw), C: uint32(contentH)})
			w.ResizeState = ResizePending
			w.ContentW = fw
		}
		d.resize = resizeState{}
		return
	}
	w, hit := d.HitTestAt(m.X, m.Y)
	if w != nil && hit == hittest.Content {
		lx, ly := m.X-w.X, m.Y-w.Y-TitleBarHeight
		w.Queue.Push(wsproto.Message{Op: wsproto.EvtMouseUp, A: w.ID, B: uint32(lx), C: uint32(ly)})
	}
}

func (d *Desktop) dispatchMenubarClick(m *MouseState) {
	click := d.Menu.HandleMenubarClick(m.X, m.Y)
	d.handleMenubarAction(click)
	d.renderMenubar()
}

func (d *Desktop) dispatchDropdownClick(m *MouseState) {
	inside, itemIdx := d.dropdownHitTest(m.X, m.Y)
	click := d.Menu.HandleDropdownClick(m.X, m.Y, inside, itemIdx)
	d.handleMenubarAction(click)
	d.renderMenubar()
}

// dropdownHitTest hit-tests the open dropdown using the geometry
// renderDropdown draws: anchored at x=0 below the menubar, dropdownWidth
// wide, itemHeight pixels per item.
func (d *Desktop) dropdownHitTest(x, y int) (inside bool, itemIdx int) {
	const itemHeight = 22
	const dropdownWidth = 160
	idx := d.Menu.OpenMenuIndex()
	if idx < 0 || idx >= len(d.Menu.ActiveMenus()) {
		return false, -1
	}
	items := d.Menu.ActiveMenus()[idx].Items
	top := menubar.Height
	bottom := top + itemHeight*len(items)
	if x < 0 || x >= dropdownWidth || y < top || y >= bottom {
		return false, -1
	}
	return true, (y - top) / itemHeight
}

func (d *Desktop) handleMenubarAction(click menubar.Click) {
	switch click.Action {
	case menubar.ActionSelectItem:
		if w, ok := d.FocusedWindowID(); ok {
			win := d.windowByID(w)
			if win != nil {
				win.Queue.Push(wsproto.Message{Op: wsproto.EvtMenuItem, A: win.ID, B: uint32(click.MenuIdx), C: click.ItemID})
			}
		}
	case menubar.ActionStatusIconClick:
		d.trayEvents = append(d.trayEvents, wsproto.Message{Op: wsproto.EvtStatusIconClick, B: click.IconID})
	}
}

// HandleScroll forwards a scroll delta to the focused window.
func (d *Desktop) HandleScroll(dz int32) {
	if !d.hasFocused {
		return
	}
	w := d.windowByID(d.focusedID)
	if w == nil {
		return
	}
	w.Queue.Push(wsproto.Message{Op: wsproto.EvtMouseScroll, A: w.ID, B: uint32(dz)})
}

// HandleKey forwards a key event to the focused window's queue.
func (d *Desktop) HandleKey(down bool, keycode, char, mods uint32) {
	if !d.hasFocused {
		return
	}
	w := d.windowByID(d.focusedID)
	if w == nil {
		return
	}
	op := wsproto.EvtKeyDown
	if !down {
		op = wsproto.EvtKeyUp
	}
	w.Queue.Push(wsproto.Message{Op: op, A: w.ID, B: keycode, C: char, D: mods})
}

// DrainTrayEvents returns and clears buffered windowless status-icon click
// events.
func (d *Desktop) DrainTrayEvents() []wsproto.Message {
	out := d.trayEvents
	d.trayEvents = nil
	return out
}
