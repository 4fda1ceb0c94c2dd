// Package menubar implements the top-screen menu strip: the active
// window's menu set, status icons, dropdown hit-testing, and the clock.
// Title widths use a fixed per-character advance rather than real glyph
// metrics.
package menubar

import "github.com/zaynotley/uicompositor/internal/wsproto"

const (
	Height          = 24
	titlePadding    = 16
	charAdvance     = 8
	dropdownNone    = -1
)

type StatusIcon struct {
	OwnerTid uint32
	IconID   uint32
	Pixels   []uint32 // 16x16 ARGB, row-major
}

type MenuBar struct {
	defs         map[uint32]wsproto.MenuDefinition
	activeWindow uint32
	haveActive   bool
	titleX       []int // left edge of each top-level title, for activeWindow's menu set
	openIndex    int
	icons        []StatusIcon
	clock        string
	screenWidth  int
}

func New() *MenuBar {
	return &MenuBar{defs: make(map[uint32]wsproto.MenuDefinition), openIndex: dropdownNone}
}

// SetMenu atomically replaces the menu tree owned by windowID.
func (m *MenuBar) SetMenu(windowID uint32, def wsproto.MenuDefinition) {
	m.defs[windowID] = def
	if m.haveActive && m.activeWindow == windowID {
		m.recomputeTitleX()
	}
}

// UpdateMenuItem sets itemID's flags within windowID's menu tree, searching
// every submenu. Reports whether the item was found.
func (m *MenuBar) UpdateMenuItem(windowID, itemID, flags uint32) bool {
	def, ok := m.defs[windowID]
	if !ok {
		return false
	}
	for i := range def.Menus {
		if updateItemFlags(def.Menus[i].Items, itemID, flags) {
			return true
		}
	}
	return false
}

func updateItemFlags(items []wsproto.MenuItem, itemID, flags uint32) bool {
	for i := range items {
		if items[i].Kind != wsproto.MenuSeparator && items[i].ID == itemID {
			items[i].Flags = flags
			return true
		}
		if items[i].Kind == wsproto.MenuSubmenuBegin && updateItemFlags(items[i].Items, itemID, flags) {
			return true
		}
	}
	return false
}

func (m *MenuBar) RemoveMenu(windowID uint32) {
	delete(m.defs, windowID)
	if m.haveActive && m.activeWindow == windowID {
		m.clearActive()
	}
}

// SetActiveWindow updates the tracked active menu set to windowID's most
// recent SET_MENU, or clears it if windowID has none.
func (m *MenuBar) SetActiveWindow(windowID uint32) {
	m.activeWindow = windowID
	m.haveActive = true
	m.openIndex = dropdownNone
	m.recomputeTitleX()
}

func (m *MenuBar) clearActive() {
	m.haveActive = false
	m.titleX = nil
	m.openIndex = dropdownNone
}

// ActiveMenus returns the menu set the menubar is currently displaying.
func (m *MenuBar) ActiveMenus() []wsproto.Menu {
	if !m.haveActive {
		return nil
	}
	return m.defs[m.activeWindow].Menus
}

func (m *MenuBar) recomputeTitleX() {
	menus := m.defs[m.activeWindow].Menus
	m.titleX = make([]int, len(menus))
	x := titlePadding
	for i, menu := range menus {
		m.titleX[i] = x
		x += titlePadding + len(menu.Title)*charAdvance
	}
}

// UIAction is the closed set of outcomes a menubar click can produce.
type UIAction int

const (
	ActionNone UIAction = iota
	ActionOpenMenu
	ActionSwitchMenu
	ActionCloseDropdown
	ActionSelectItem
	ActionStatusIconClick
)

// Click is the result of handling a point on, or below, the menubar.
type Click struct {
	Action  UIAction
	MenuIdx int
	ItemID  uint32
	IconID  uint32
}

// IsDropdownOpen reports whether a dropdown is currently shown.
func (m *MenuBar) IsDropdownOpen() bool { return m.openIndex != dropdownNone }

// titleAt returns the menu index whose title band contains x, or -1.
func (m *MenuBar) titleAt(x int) int {
	menus := m.ActiveMenus()
	for i, startX := range m.titleX {
		width := titlePadding + len(menus[i].Title)*charAdvance
		if x >= startX-titlePadding/2 && x < startX-titlePadding/2+width {
			return i
		}
	}
	return -1
}

// HandleMenubarClick processes a click at (x,y) where y < Height.
func (m *MenuBar) HandleMenubarClick(x, y int) Click {
	if idx := m.titleAt(x); idx >= 0 {
		if m.openIndex == idx {
			m.openIndex = dropdownNone
			return Click{Action: ActionCloseDropdown}
		}
		action := ActionOpenMenu
		if m.openIndex != dropdownNone {
			action = ActionSwitchMenu
		}
		m.openIndex = idx
		return Click{Action: action, MenuIdx: idx}
	}
	if icon, ok := m.iconAt(x); ok {
		return Click{Action: ActionStatusIconClick, IconID: icon.IconID}
	}
	return Click{Action: ActionNone}
}

// HandleDropdownClick processes a click while a dropdown is open: the
// "inside dropdown" and "outside dropdown" branches. insideDropdown and
// itemIdxAtPoint are caller-computed from the open menu's on-screen
// layout.
func (m *MenuBar) HandleDropdownClick(x, y int, insideDropdown bool, itemIdxAtPoint int) Click {
	if !m.IsDropdownOpen() {
		return Click{Action: ActionNone}
	}
	if y < Height {
		return m.HandleMenubarClick(x, y)
	}
	if !insideDropdown {
		m.openIndex = dropdownNone
		return Click{Action: ActionCloseDropdown}
	}
	menus := m.ActiveMenus()
	items := menus[m.openIndex].Items
	if itemIdxAtPoint < 0 || itemIdxAtPoint >= len(items) {
		return Click{Action: ActionNone}
	}
	item := items[itemIdxAtPoint]
	if item.Kind == wsproto.MenuSeparator || item.Flags&wsproto.MenuItemEnabled == 0 {
		return Click{Action: ActionNone}
	}
	openIdx := m.openIndex
	m.openIndex = dropdownNone
	return Click{Action: ActionSelectItem, MenuIdx: openIdx, ItemID: item.ID}
}

const (
	iconSize   = 16
	iconGap    = 4
	clockWidth = 60
)

// SetScreenWidth records the current screen width so status-icon and clock
// positions (laid right-to-left from the right edge) can be hit-tested.
func (m *MenuBar) SetScreenWidth(w int) { m.screenWidth = w }

func (m *MenuBar) iconAt(x int) (StatusIcon, bool) {
	for _, p := range m.iconPositions() {
		if x >= p.X && x < p.X+iconSize {
			return p.Icon, true
		}
	}
	return StatusIcon{}, false
}

// IconPlacement is one status icon's left-edge x position, laid right to
// left from the right edge of the screen.
type IconPlacement struct {
	X    int
	Icon StatusIcon
}

func (m *MenuBar) iconPositions() []IconPlacement {
	right := m.screenWidth - clockWidth
	out := make([]IconPlacement, 0, len(m.icons))
	for i := len(m.icons) - 1; i >= 0; i-- {
		left := right - iconSize
		out = append(out, IconPlacement{X: left, Icon: m.icons[i]})
		right = left - iconGap
	}
	return out
}

// IconPositions exposes each status icon's on-screen x position, for the
// renderer to draw icons at exactly the spot iconAt hit-tests.
func (m *MenuBar) IconPositions() []IconPlacement { return m.iconPositions() }

// ClockX returns the left edge of the clock's reserved band.
func (m *MenuBar) ClockX() int { return m.screenWidth - clockWidth }

// TitleSpan is one top-level menu title's text and left-edge x position.
type TitleSpan struct {
	X     int
	Title string
}

// TitleSpans returns each active top-level menu's title and x position, in
// the same left-to-right order HandleMenubarClick hit-tests against.
func (m *MenuBar) TitleSpans() []TitleSpan {
	menus := m.ActiveMenus()
	out := make([]TitleSpan, len(menus))
	for i, menu := range menus {
		out[i] = TitleSpan{X: m.titleX[i], Title: menu.Title}
	}
	return out
}

// AddStatusIcon appends an icon, ordered by registration time.
func (m *MenuBar) AddStatusIcon(icon StatusIcon) {
	m.icons = append(m.icons, icon)
}

// RemoveStatusIcon removes the named icon for tid, if present.
func (m *MenuBar) RemoveStatusIcon(tid, iconID uint32) {
	for i, ic := range m.icons {
		if ic.OwnerTid == tid && ic.IconID == iconID {
			m.icons = append(m.icons[:i], m.icons[i+1:]...)
			return
		}
	}
}

// RemoveIconsForTid removes every icon owned by tid (process-exit
// cleanup).
func (m *MenuBar) RemoveIconsForTid(tid uint32) {
	kept := m.icons[:0]
	for _, ic := range m.icons {
		if ic.OwnerTid != tid {
			kept = append(kept, ic)
		}
	}
	m.icons = kept
}

func (m *MenuBar) SetClock(text string) { m.clock = text }
func (m *MenuBar) Clock() string        { return m.clock }
func (m *MenuBar) StatusIcons() []StatusIcon { return m.icons }
func (m *MenuBar) OpenMenuIndex() int         { return m.openIndex }
