package desktop

import (
	"github.com/zaynotley/uicompositor/internal/menubar"
	"github.com/zaynotley/uicompositor/internal/pixel"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

// ThemeIsLight reports the theme the menubar and chrome are currently
// painting.
func (d *Desktop) ThemeIsLight() bool { return d.themeLight }

// LayerCount reports the compositor's current layer count.
func (d *Desktop) LayerCount() int { return d.Comp.LayerCount() }

// CreateClientWindow builds a window backed by shmID, whose region the
// caller has already mapped outside the lock, and fully renders its chrome
// before returning. The map itself is the expensive step; painting into an
// already-mapped region is bounded work and safe to do under the lock.
func (d *Desktop) CreateClientWindow(ownerTid uint32, w, h int, flags uint32, shmID string) *Window {
	pre := pixel.NewBuffer(w, fullHeightFor(h, flags))
	win := d.CreateWindow(ownerTid, w, h, flags, shmID, pre)
	d.renderChrome(win)
	return win
}

func fullHeightFor(contentH int, flags uint32) int {
	if flags&wsproto.FlagBorderless != 0 {
		return contentH
	}
	return contentH + TitleBarHeight
}

// WindowOwner returns the tid that owns windowID, if it exists.
func (d *Desktop) WindowOwner(windowID uint32) (uint32, bool) {
	w := d.windowByID(windowID)
	if w == nil {
		return 0, false
	}
	return w.OwnerTid, true
}

// Present copies windowID's current SHM contents into its backing layer's
// content region and damages the layer, unless the client re-presented the
// same bytes unchanged. It does not repaint chrome.
func (d *Desktop) Present(windowID uint32) {
	w := d.windowByID(windowID)
	if w == nil {
		return
	}
	l := d.Comp.Layer(w.LayerID)
	if l == nil {
		return
	}
	if reg, ok := d.Shm.Map(w.ShmID); ok && !reg.ContentChanged() {
		return
	}
	yOffset := 0
	if !w.IsBorderless() {
		yOffset = TitleBarHeight
	}
	d.copyContent(w, l, yOffset)
	d.Comp.AddDamage(l.DamageBounds())
}

// SetTitle updates a window's title and re-renders its chrome.
func (d *Desktop) SetTitle(id uint32, title string) {
	w := d.windowByID(id)
	if w == nil {
		return
	}
	w.Title = title
	d.renderChrome(w)
}

// MoveWindow handles a client-requested MOVE_WINDOW command: it moves the
// layer directly, independent of any in-progress drag.
func (d *Desktop) MoveWindow(id uint32, x, y int) {
	w := d.windowByID(id)
	if w == nil {
		return
	}
	w.X, w.Y = x, y
	d.Comp.MoveLayer(w.LayerID, x, y)
}

// SetMenu decodes a packed menu tree read from shmID, attaches it to
// windowID, and unmaps shmID (the tree is fully copied into the menubar's
// own structures, so the mapping is no longer needed).
func (d *Desktop) SetMenu(windowID uint32, shmID string) bool {
	reg, ok := d.Shm.Map(shmID)
	if !ok {
		return false
	}
	def := wsproto.DecodeMenuTree(reg.Bytes())
	d.Menu.SetMenu(windowID, def)
	d.Shm.Unmap(shmID)
	if d.hasFocused && d.focusedID == windowID {
		d.renderMenubar()
	}
	return true
}

const iconDim = 16

// AddStatusIcon decodes a 16x16 ARGB icon from shmID and appends it to the
// menubar. The icon's pixels are copied out, so shmID is unmapped
// immediately.
func (d *Desktop) AddStatusIcon(tid, iconID uint32, shmID string) bool {
	reg, ok := d.Shm.Map(shmID)
	if !ok {
		return false
	}
	src := reg.Bytes()
	pix := make([]uint32, iconDim*iconDim)
	for i := range pix {
		off := i * 4
		if off+4 > len(src) {
			break
		}
		pix[i] = uint32(src[off+3])<<24 | uint32(src[off+2])<<16 | uint32(src[off+1])<<8 | uint32(src[off])
	}
	d.Menu.AddStatusIcon(menubar.StatusIcon{OwnerTid: tid, IconID: iconID, Pixels: pix})
	d.Shm.Unmap(shmID)
	d.renderMenubar()
	return true
}

// RemoveStatusIcon removes tid's named status icon.
func (d *Desktop) RemoveStatusIcon(tid, iconID uint32) {
	d.Menu.RemoveStatusIcon(tid, iconID)
	d.renderMenubar()
}

// UpdateMenuItem sets itemID's flags within windowID's menu tree and
// re-renders the open dropdown if it is currently showing that window's
// menu set.
func (d *Desktop) UpdateMenuItem(windowID, itemID, flags uint32) bool {
	if !d.Menu.UpdateMenuItem(windowID, itemID, flags) {
		return false
	}
	if d.Menu.IsDropdownOpen() && d.hasFocused && d.focusedID == windowID {
		d.renderMenubar()
	}
	return true
}

// ResizeShm completes the RESIZE_SHM handshake: unmap the window's old
// region, adopt newShmID (already mapped by the caller outside the lock),
// resize its layer, and re-render chrome.
func (d *Desktop) ResizeShm(id uint32, newShmID string, newW, newH int) bool {
	w := d.windowByID(id)
	if w == nil {
		return false
	}
	if w.ShmID != "" {
		d.Shm.Unmap(w.ShmID)
	}
	w.ShmID = newShmID
	w.ContentW, w.ContentH = newW, newH
	d.Comp.ResizeLayer(w.LayerID, w.FullWidth(), w.FullHeight())
	w.ResizeState = ResizeNormal
	d.renderChrome(w)
	return true
}

// RegisterSub records tid's client event subscription id.
func (d *Desktop) RegisterSub(tid, subID uint32) {
	d.subs[tid] = subID
}

// SubForTid returns tid's registered subscription id, if any.
func (d *Desktop) SubForTid(tid uint32) (uint32, bool) {
	subID, ok := d.subs[tid]
	return subID, ok
}

// WindowEvent pairs a drained wire event with the tid that owns the window
// it came from, so the caller can resolve a subscription id for routing.
type WindowEvent struct {
	OwnerTid uint32
	Msg      wsproto.Message
}

// DrainWindowEvents drains every window's per-window event queue and
// returns them tagged with owner tid, in window-list order.
func (d *Desktop) DrainWindowEvents() []WindowEvent {
	var out []WindowEvent
	for _, w := range d.windows {
		for _, m := range w.Queue.Drain() {
			out = append(out, WindowEvent{OwnerTid: w.OwnerTid, Msg: m})
		}
	}
	return out
}

// FocusByTid focuses the first window owned by tid and reports its id. It
// does not restore the window or change its maximized state.
func (d *Desktop) FocusByTid(tid uint32) (uint32, bool) {
	for _, w := range d.windows {
		if w.OwnerTid == tid {
			d.FocusWindow(w.ID)
			return w.ID, true
		}
	}
	return 0, false
}
