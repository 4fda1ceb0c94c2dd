package desktop

import (
	"testing"

	"github.com/zaynotley/uicompositor/internal/wsproto"
)

func TestRenderMenubarPaintsTitleAndClock(t *testing.T) {
	d := newTestDesktop(t)
	d.Menu.SetMenu(1, wsproto.MenuDefinition{Menus: []wsproto.Menu{
		{Title: "File", Items: []wsproto.MenuItem{{Kind: wsproto.MenuLeaf, ID: 1, Flags: wsproto.MenuItemEnabled, Label: "New"}}},
	}})
	d.Menu.SetActiveWindow(1)
	d.Menu.SetClock("12:34")
	d.renderMenubar()

	buf := d.Comp.Layer(d.menuLayerID).Buf
	painted := false
	for _, p := range buf.Pix {
		if p.A() != 0 {
			painted = true
			break
		}
	}
	if !painted {
		t.Fatal("renderMenubar must paint the menubar layer when a title and clock are set")
	}
}

func TestRenderMenubarCreatesAndRemovesDropdownLayer(t *testing.T) {
	d := newTestDesktop(t)
	d.Menu.SetMenu(1, wsproto.MenuDefinition{Menus: []wsproto.Menu{
		{Title: "File", Items: []wsproto.MenuItem{{Kind: wsproto.MenuLeaf, ID: 1, Flags: wsproto.MenuItemEnabled, Label: "New"}}},
	}})
	d.Menu.SetActiveWindow(1)
	before := d.Comp.LayerCount()

	d.Menu.HandleMenubarClick(d.Menu.TitleSpans()[0].X, 5)
	d.renderMenubar()
	if !d.hasDropdownLayer {
		t.Fatal("opening a dropdown must create a transient dropdown layer")
	}
	if got := d.Comp.LayerCount(); got != before+1 {
		t.Fatalf("expected one new layer for the open dropdown, got %d -> %d", before, got)
	}

	d.Menu.HandleMenubarClick(d.Menu.TitleSpans()[0].X, 5)
	d.renderMenubar()
	if d.hasDropdownLayer {
		t.Fatal("closing the dropdown must remove its transient layer")
	}
	if got := d.Comp.LayerCount(); got != before {
		t.Fatalf("expected the dropdown layer to be removed, got %d want %d", got, before)
	}
}

func TestRenderMenubarSkipsDropdownForEmptyMenu(t *testing.T) {
	d := newTestDesktop(t)
	d.Menu.SetMenu(1, wsproto.MenuDefinition{Menus: []wsproto.Menu{{Title: "Empty"}}})
	d.Menu.SetActiveWindow(1)

	d.Menu.HandleMenubarClick(d.Menu.TitleSpans()[0].X, 5)
	d.renderMenubar()
	if d.hasDropdownLayer {
		t.Fatal("a menu with no items must not create a dropdown layer")
	}
}
