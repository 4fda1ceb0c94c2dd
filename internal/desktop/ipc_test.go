package desktop

import (
	"testing"

	"github.com/zaynotley/uicompositor/internal/wsproto"
)

func TestSetTitleUpdatesField(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 200, 150)
	d.SetTitle(win.ID, "Terminal")
	if win.Title != "Terminal" {
		t.Fatalf("expected title to update, got %q", win.Title)
	}
}

func TestMoveWindowUpdatesPosition(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 200, 150)
	d.MoveWindow(win.ID, 300, 250)
	if win.X != 300 || win.Y != 250 {
		t.Fatalf("expected window moved to (300,250), got (%d,%d)", win.X, win.Y)
	}
}

func TestSetMenuAttachesAndUnmapsShm(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 200, 150)

	def := wsproto.MenuDefinition{Menus: []wsproto.Menu{{Title: "File", Items: []wsproto.MenuItem{
		{Kind: wsproto.MenuLeaf, ID: 1, Flags: wsproto.MenuItemEnabled, Label: "Quit"},
	}}}}
	reg, err := d.Shm.Create(len(wsproto.EncodeMenuTree(def)))
	if err != nil {
		t.Fatalf("shm create: %v", err)
	}
	copy(reg.Bytes(), wsproto.EncodeMenuTree(def))

	if !d.SetMenu(win.ID, reg.ID) {
		t.Fatal("expected SetMenu to succeed")
	}
	d.Menu.SetActiveWindow(win.ID)
	if len(d.Menu.ActiveMenus()) != 1 || d.Menu.ActiveMenus()[0].Title != "File" {
		t.Fatalf("expected decoded menu to attach, got %+v", d.Menu.ActiveMenus())
	}
	if _, ok := d.Shm.Map(reg.ID); ok {
		t.Fatal("expected shm region to be unmapped after SetMenu")
	}
}

func TestAddStatusIconDecodesPixelsAndUnmaps(t *testing.T) {
	d := newTestDesktop(t)
	reg, err := d.Shm.Create(iconDim * iconDim * 4)
	if err != nil {
		t.Fatalf("shm create: %v", err)
	}
	buf := reg.Bytes()
	buf[0], buf[1], buf[2], buf[3] = 10, 20, 30, 255 // B,G,R,A

	if !d.AddStatusIcon(7, 1, reg.ID) {
		t.Fatal("expected AddStatusIcon to succeed")
	}
	icons := d.Menu.StatusIcons()
	if len(icons) != 1 || icons[0].OwnerTid != 7 || icons[0].IconID != 1 {
		t.Fatalf("expected one icon owned by tid 7, got %+v", icons)
	}
	if _, ok := d.Shm.Map(reg.ID); ok {
		t.Fatal("expected shm region to be unmapped after AddStatusIcon")
	}
}

func TestResizeShmUnmapsOldAndAdoptsNew(t *testing.T) {
	d := newTestDesktop(t)
	oldReg, _ := d.Shm.Create(200 * 150 * 4)
	win := d.CreateClientWindow(1, 200, 150, 0, oldReg.ID)

	newReg, err := d.Shm.Create(300 * 200 * 4)
	if err != nil {
		t.Fatalf("shm create: %v", err)
	}
	if !d.ResizeShm(win.ID, newReg.ID, 300, 200) {
		t.Fatal("expected ResizeShm to succeed")
	}
	if win.ShmID != newReg.ID || win.ContentW != 300 || win.ContentH != 200 {
		t.Fatalf("expected window to adopt new shm/dims, got %+v", win)
	}
	if _, ok := d.Shm.Map(oldReg.ID); ok {
		t.Fatal("expected old shm region to be unmapped")
	}
}

func TestFocusByTidFocusesOwnedWindow(t *testing.T) {
	d := newTestDesktop(t)
	winA := newTestWindow(d, 100, 100)
	winA.OwnerTid = 5
	winB := newTestWindow(d, 100, 100)
	winB.OwnerTid = 9

	id, ok := d.FocusByTid(5)
	if !ok || id != winA.ID {
		t.Fatalf("expected FocusByTid(5) to find window %d, got %d,%v", winA.ID, id, ok)
	}
	focused, _ := d.FocusedWindowID()
	if focused != winA.ID {
		t.Fatalf("expected window %d focused, got %d", winA.ID, focused)
	}
}

func TestRegisterSubAndSubForTid(t *testing.T) {
	d := newTestDesktop(t)
	if _, ok := d.SubForTid(3); ok {
		t.Fatal("expected no subscription before RegisterSub")
	}
	d.RegisterSub(3, 77)
	subID, ok := d.SubForTid(3)
	if !ok || subID != 77 {
		t.Fatalf("expected sub 77 for tid 3, got %d,%v", subID, ok)
	}
}

func TestDrainWindowEventsTagsOwnerTid(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 100, 100)
	win.OwnerTid = 42
	win.Queue.Push(wsproto.Message{Op: wsproto.EvtWindowClose, A: win.ID})

	events := d.DrainWindowEvents()
	if len(events) != 1 || events[0].OwnerTid != 42 || events[0].Msg.Op != wsproto.EvtWindowClose {
		t.Fatalf("expected one tagged window-close event, got %+v", events)
	}
}
