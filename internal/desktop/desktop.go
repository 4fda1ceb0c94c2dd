package desktop

import (
	"time"

	"go.uber.org/zap"

	"github.com/zaynotley/uicompositor/internal/anim"
	"github.com/zaynotley/uicompositor/internal/compositor"
	"github.com/zaynotley/uicompositor/internal/cursor"
	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/hittest"
	"github.com/zaynotley/uicompositor/internal/menubar"
	"github.com/zaynotley/uicompositor/internal/pixel"
	"github.com/zaynotley/uicompositor/internal/shm"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

// Theme colors for the light/dark theme-dependent palette: menubar,
// titlebar, window body/border, and traffic-light buttons.
var (
	colorMenubarBgDark   = pixel.RGBA(255, 32, 32, 36)
	colorMenubarBgLight  = pixel.RGBA(255, 230, 230, 232)
	colorTitlebarFocused = pixel.RGBA(255, 58, 58, 64)
	colorTitlebarBlurred = pixel.RGBA(255, 40, 40, 44)
	colorWindowBodyDark  = pixel.RGBA(255, 24, 24, 26)
	colorWindowBodyLight = pixel.RGBA(255, 246, 246, 248)
	colorClose           = pixel.RGBA(255, 237, 106, 94)
	colorMinimize        = pixel.RGBA(255, 245, 191, 79)
	colorMaximize        = pixel.RGBA(255, 97, 196, 81)
	colorUnfocusedButton = pixel.RGBA(255, 90, 90, 94)
	colorTitleTextFocused = pixel.RGBA(255, 235, 235, 238)
	colorTitleTextBlurred = pixel.RGBA(255, 150, 150, 154)

	colorMenuTextDark    = pixel.RGBA(255, 225, 225, 228)
	colorMenuTextLight   = pixel.RGBA(255, 40, 40, 44)
	colorMenuTitleActive = pixel.RGBA(255, 70, 130, 230)
	colorDropdownBgDark  = pixel.RGBA(255, 48, 48, 52)
	colorDropdownBgLight = pixel.RGBA(255, 250, 250, 252)
	colorSeparatorDark   = pixel.RGBA(255, 70, 70, 74)
	colorSeparatorLight  = pixel.RGBA(255, 210, 210, 214)
	colorItemDisabled    = pixel.RGBA(255, 120, 120, 124)
)

type dragState struct {
	active              bool
	windowID            uint32
	grabOffsetX, grabOffsetY int
}

type resizeState struct {
	active   bool
	windowID uint32
	anchor   ResizeAnchor

	// startMouseX/Y is the pointer position at mouse-down; resize deltas
	// are measured from it.
	startMouseX, startMouseY int
}

type buttonHover struct {
	windowID uint32
	button   hittest.Result
}

// Desktop is the window manager: it owns the window list, menubar,
// cursor/drag/resize state, client subscriptions, and deferred work.
type Desktop struct {
	log *zap.SugaredLogger

	Comp *compositor.Compositor
	Menu *menubar.MenuBar
	Shm  *shm.Registry

	menuLayerID      uint32
	dropdownLayerID  uint32
	hasDropdownLayer bool

	windows []*Window
	nextID  uint32

	focusedID  uint32
	hasFocused bool

	subs map[uint32]uint32 // owner_tid -> sub_id

	anims *anim.Set

	drag   dragState
	resize resizeState

	hover buttonHover

	cursorShape cursor.Shape

	themeLight bool

	screenW, screenH int

	wallpaperPending bool

	// trayEvents buffers EVT_STATUS_ICON_CLICK-style events for clients that
	// own a status icon but no window.
	trayEvents []wsproto.Message
}

func New(comp *compositor.Compositor, screenW, screenH int, log *zap.SugaredLogger) *Desktop {
	d := &Desktop{
		log:     log,
		Comp:    comp,
		Menu:    menubar.New(),
		Shm:     shm.NewRegistry(),
		subs:    make(map[uint32]uint32),
		anims:   anim.NewSet(),
		screenW: screenW,
		screenH: screenH,
	}
	d.Menu.SetScreenWidth(screenW)
	l := d.Comp.AddLayer(0, 0, screenW, menubar.Height, true)
	d.menuLayerID = l.ID
	d.renderMenubar()
	// Define the arrow bitmap up front so the software-cursor fallback in
	// Compose has something to draw even before the first mouse move.
	d.Comp.DefineHWCursor(cursor.All(d.cursorShape))
	return d
}

func (d *Desktop) WindowCount() int { return len(d.windows) }

func (d *Desktop) FocusedWindowID() (uint32, bool) { return d.focusedID, d.hasFocused }

func (d *Desktop) windowByID(id uint32) *Window {
	for _, w := range d.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// topDown returns windows in topmost-first order for hit-testing.
func (d *Desktop) topDown() []*Window {
	out := make([]*Window, len(d.windows))
	for i, w := range d.windows {
		out[len(out)-1-i] = w
	}
	return out
}

// HitTestAt returns the topmost window hit at (px,py) and its hit-test
// result, or (nil, None) if no window is hit.
func (d *Desktop) HitTestAt(px, py int) (*Window, hittest.Result) {
	for _, w := range d.topDown() {
		if r := HitTest(w, px, py); r != hittest.None {
			return w, r
		}
	}
	return nil, hittest.None
}

// CreateWindow adds a backing layer holding pre for a new window and
// appends the window to the top of the window list. It paints no chrome
// itself; the caller supplies pre and renders chrome into the layer.
func (d *Desktop) CreateWindow(ownerTid uint32, w, h int, flags uint32, shmID string, pre *pixel.Buffer) *Window {
	d.nextID++
	x, y := 40+20*int(d.nextID%10), 60+15*int(d.nextID%10)
	l := d.Comp.AddLayerWithPixels(x, y, pre, !hasTransparencyFlag(flags))
	win := NewWindow(d.nextID, ownerTid, x, y, w, h, flags, l.ID, shmID)
	d.windows = append(d.windows, win)
	if win.IsAlwaysOnTop() {
		d.raiseAlwaysOnTop()
	}
	d.Comp.RaiseLayer(d.menuLayerID)
	return win
}

func hasTransparencyFlag(flags uint32) bool {
	return flags&wsproto.FlagBorderless != 0
}

// DestroyWindow removes a window, its layer, and unmaps its SHM.
func (d *Desktop) DestroyWindow(id uint32) {
	w := d.windowByID(id)
	if w == nil {
		return
	}
	d.Comp.RemoveLayer(w.LayerID)
	if w.ShmID != "" {
		d.Shm.Unmap(w.ShmID)
	}
	d.removeWindowFromList(id)
	if d.hasFocused && d.focusedID == id {
		d.hasFocused = false
		d.focusNextTop()
	}
}

func (d *Desktop) removeWindowFromList(id uint32) {
	for i, w := range d.windows {
		if w.ID == id {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			return
		}
	}
}

func (d *Desktop) focusNextTop() {
	if len(d.windows) == 0 {
		return
	}
	d.FocusWindow(d.windows[len(d.windows)-1].ID)
}

// FocusWindow runs the focus-change protocol: unfocus the previous window
// (repaint its title bar only), set the new focus, raise its layer, move
// it to the end of the list, re-raise always-on-top layers, update the
// active menu set, and damage the menubar.
func (d *Desktop) FocusWindow(id uint32) {
	w := d.windowByID(id)
	if w == nil {
		return
	}
	if d.hasFocused && d.focusedID == id {
		return
	}
	if d.hasFocused {
		if prev := d.windowByID(d.focusedID); prev != nil {
			prev.Focused = false
			d.renderTitlebar(prev)
		}
	}
	w.Focused = true
	d.focusedID = id
	d.hasFocused = true
	d.Comp.RaiseLayer(w.LayerID)
	d.moveToEndOfList(id)
	d.raiseAlwaysOnTop()
	d.Comp.RaiseLayer(d.menuLayerID)
	layerID := w.LayerID
	d.Comp.SetFocusedLayer(&layerID)
	d.renderChrome(w)
	d.Menu.SetActiveWindow(id)
	d.renderMenubar()
}

func (d *Desktop) moveToEndOfList(id uint32) {
	for i, w := range d.windows {
		if w.ID == id {
			d.windows = append(append(d.windows[:i], d.windows[i+1:]...), w)
			return
		}
	}
}

func (d *Desktop) raiseAlwaysOnTop() {
	for _, w := range d.windows {
		if w.IsAlwaysOnTop() {
			d.Comp.RaiseLayer(w.LayerID)
		}
	}
}

func (d *Desktop) menubarRect() geom.Rect {
	return geom.Rect{X: 0, Y: 0, W: d.screenW, H: menubar.Height}
}

// ToggleMaximize saves/restores a window's pre-maximize bounds.
func (d *Desktop) ToggleMaximize(id uint32) {
	w := d.windowByID(id)
	if w == nil {
		return
	}
	if !w.Maximized && !w.IsResizable() {
		return
	}
	if w.Maximized {
		w.X, w.Y = w.SavedX, w.SavedY
		w.ContentW, w.ContentH = w.SavedContentW, w.SavedContentH
		w.Maximized = false
	} else {
		w.SavedX, w.SavedY = w.X, w.Y
		w.SavedContentW, w.SavedContentH = w.ContentW, w.ContentH
		w.X, w.Y = 0, menubar.Height+1
		w.ContentW = d.screenW
		w.ContentH = d.screenH - menubar.Height - 1 - TitleBarHeight
		w.Maximized = true
	}
	before, after := d.Comp.Layer(w.LayerID).MoveTo(w.X, w.Y)
	d.Comp.AddDamage(before)
	d.Comp.AddDamage(after)
	d.Comp.ResizeLayer(w.LayerID, w.FullWidth(), w.FullHeight())
	d.renderChrome(w)
}

// OnProcessExit destroys every window owned by tid and removes its
// subscription and status icons.
func (d *Desktop) OnProcessExit(tid uint32) {
	var owned []uint32
	for _, w := range d.windows {
		if w.OwnerTid == tid {
			owned = append(owned, w.ID)
		}
	}
	for _, id := range owned {
		d.DestroyWindow(id)
	}
	delete(d.subs, tid)
	d.Menu.RemoveIconsForTid(tid)
	d.renderMenubar()
}

// OnThemeChange re-renders the menubar and every window's chrome.
func (d *Desktop) OnThemeChange(light bool) {
	d.themeLight = light
	for _, w := range d.windows {
		d.renderChrome(w)
	}
	d.renderMenubar()
	d.Comp.DamageAll()
}

// OnResolutionChange updates screen dimensions, clamps the compositor, and
// flags a deferred wallpaper reload instead of reloading inline.
func (d *Desktop) OnResolutionChange(w, h int) {
	d.screenW, d.screenH = w, h
	d.Comp.Resize(w, h)
	d.Comp.ResizeLayer(d.menuLayerID, w, menubar.Height)
	d.Menu.SetScreenWidth(w)
	d.renderMenubar()
	d.Comp.UseGradientBackground(true)
	d.wallpaperPending = true
}

// ProcessDeferredWallpaper is called by the render thread outside the
// shared mutex's critical section boundary (the caller re-acquires the lock
// only to swap in the result); here it just clears the flag and reports
// whether work was pending.
func (d *Desktop) ProcessDeferredWallpaper() bool {
	if !d.wallpaperPending {
		return false
	}
	d.wallpaperPending = false
	d.Comp.UseGradientBackground(false)
	return true
}

// TickAnimations advances button hover/press animations and repaints the
// focused window's title bar on every tick, whether or not an animation is
// still active; other windows' title bars are not repainted here. Reports
// whether any animation is still running.
func (d *Desktop) TickAnimations(now time.Time) bool {
	active := d.anims.Tick(now)
	if d.hasFocused {
		if w := d.windowByID(d.focusedID); w != nil {
			d.renderTitlebar(w)
		}
	}
	d.tickClock(now)
	return active
}

// tickClock refreshes the menubar clock once a minute rather than every
// render tick.
func (d *Desktop) tickClock(now time.Time) {
	text := now.Format("15:04")
	if text == d.Menu.Clock() {
		return
	}
	d.Menu.SetClock(text)
	d.renderMenubar()
}

func (d *Desktop) buttonAnimID(windowID uint32, btn hittest.Result) uint32 {
	return windowID*8 + uint32(btn)
}
