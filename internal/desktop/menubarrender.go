package desktop

import (
	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/menubar"
	"github.com/zaynotley/uicompositor/internal/pixel"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

const (
	dropdownItemHeight = 22
	dropdownWidth      = 160
	statusIconDim      = 16
)

// renderMenubar repaints the menubar strip (top-level menu titles, status
// icons, clock) and, when a dropdown is open, its item panel on a separate
// transient layer. Every call site that changes menubar state calls this
// instead of damaging the strip directly, so the pixels always match what
// input.go hit-tests against.
func (d *Desktop) renderMenubar() {
	l := d.Comp.Layer(d.menuLayerID)
	if l == nil {
		return
	}
	buf := l.Buf
	bg := colorMenubarBgDark
	textColor := colorMenuTextDark
	if d.themeLight {
		bg = colorMenubarBgLight
		textColor = colorMenuTextLight
	}
	pixel.FillRect(buf, 0, 0, buf.Stride, buf.Height, bg)

	openIdx := d.Menu.OpenMenuIndex()
	for i, span := range d.Menu.TitleSpans() {
		ty := (menubar.Height - pixel.TextHeight()) / 2
		if i == openIdx {
			w := pixel.TextWidth(span.Title) + 16
			pixel.FillRect(buf, span.X-8, 2, w, menubar.Height-4, colorMenuTitleActive)
		}
		pixel.DrawText(buf, span.X, ty, span.Title, textColor)
	}

	clockText := d.Menu.Clock()
	if clockText != "" {
		cx := d.Menu.ClockX()
		cy := (menubar.Height - pixel.TextHeight()) / 2
		pixel.DrawText(buf, cx, cy, clockText, textColor)
	}

	for _, p := range d.Menu.IconPositions() {
		blitIcon(buf, p.X, (menubar.Height-statusIconDim)/2, p.Icon.Pixels)
	}

	d.Comp.AddDamage(d.menubarRect())
	d.renderDropdown()
}

// blitIcon paints a 16x16 ARGB (word-packed, 0xAARRGGBB) icon at (x,y),
// skipping fully transparent pixels.
func blitIcon(buf *pixel.Buffer, x, y int, pix []uint32) {
	for row := 0; row < statusIconDim; row++ {
		for col := 0; col < statusIconDim; col++ {
			i := row*statusIconDim + col
			if i >= len(pix) {
				return
			}
			argb := pix[i]
			a := uint8(argb >> 24)
			if a == 0 {
				continue
			}
			r := uint8(argb >> 16)
			g := uint8(argb >> 8)
			b := uint8(argb)
			pixel.FillRect(buf, x+col, y+row, 1, 1, pixel.RGBA(a, r, g, b))
		}
	}
}

// renderDropdown paints the open menu's item list into a transient layer
// positioned directly below the menubar strip, creating or resizing the
// layer as needed, and removes it once no dropdown is open. Its geometry
// (dropdownWidth, dropdownItemHeight, anchored at x=0) must stay in lock
// step with input.go's dropdownHitTest.
func (d *Desktop) renderDropdown() {
	idx := d.Menu.OpenMenuIndex()
	menus := d.Menu.ActiveMenus()
	if idx < 0 || idx >= len(menus) {
		d.removeDropdownLayer()
		return
	}
	items := menus[idx].Items
	h := dropdownItemHeight * len(items)
	if h == 0 {
		d.removeDropdownLayer()
		return
	}
	if !d.hasDropdownLayer {
		l := d.Comp.AddLayer(0, menubar.Height, dropdownWidth, h, true)
		d.dropdownLayerID = l.ID
		d.hasDropdownLayer = true
	} else {
		d.Comp.ResizeLayer(d.dropdownLayerID, dropdownWidth, h)
	}
	d.Comp.RaiseLayer(d.dropdownLayerID)

	l := d.Comp.Layer(d.dropdownLayerID)
	if l == nil {
		return
	}
	buf := l.Buf
	bg := colorDropdownBgDark
	textColor := colorMenuTextDark
	sepColor := colorSeparatorDark
	if d.themeLight {
		bg = colorDropdownBgLight
		textColor = colorMenuTextLight
		sepColor = colorSeparatorLight
	}
	pixel.FillRect(buf, 0, 0, buf.Stride, buf.Height, bg)
	for i, item := range items {
		top := i * dropdownItemHeight
		if item.Kind == wsproto.MenuSeparator {
			pixel.FillRect(buf, 8, top+dropdownItemHeight/2, dropdownWidth-16, 1, sepColor)
			continue
		}
		color := textColor
		if item.Flags&wsproto.MenuItemEnabled == 0 {
			color = colorItemDisabled
		}
		ty := top + (dropdownItemHeight-pixel.TextHeight())/2
		pixel.DrawText(buf, 12, ty, item.Label, color)
		if item.Flags&wsproto.MenuItemChecked != 0 {
			pixel.FillRect(buf, 2, top+dropdownItemHeight/2-2, 4, 4, color)
		}
	}
	d.Comp.AddDamage(geom.Rect{X: 0, Y: menubar.Height, W: dropdownWidth, H: h})
}

func (d *Desktop) removeDropdownLayer() {
	if !d.hasDropdownLayer {
		return
	}
	l := d.Comp.Layer(d.dropdownLayerID)
	if l != nil {
		d.Comp.AddDamage(geom.Rect{X: l.X, Y: l.Y, W: l.Buf.Stride, H: l.Buf.Height})
	}
	d.Comp.RemoveLayer(d.dropdownLayerID)
	d.hasDropdownLayer = false
}
