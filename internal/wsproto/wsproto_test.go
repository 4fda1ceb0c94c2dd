package wsproto

import "testing"

func TestPackUnpackTitleRoundTrip(t *testing.T) {
	w0, w1, w2 := PackTitle("hello.txt")
	got := UnpackTitle(w0, w1, w2)
	if got != "hello.txt" {
		t.Fatalf("got %q want %q", got, "hello.txt")
	}
}

func TestPackTitleTruncatesAtTwelveBytes(t *testing.T) {
	w0, w1, w2 := PackTitle("abcdefghijklmnop")
	got := UnpackTitle(w0, w1, w2)
	if got != "abcdefghijkl" {
		t.Fatalf("got %q want %q", got, "abcdefghijkl")
	}
}

func TestMenuTreeRoundTrip(t *testing.T) {
	def := MenuDefinition{Menus: []Menu{
		{Title: "File", Items: []MenuItem{
			{Kind: MenuLeaf, ID: 1, Flags: MenuItemEnabled, Label: "New"},
			{Kind: MenuSeparator},
			{Kind: MenuLeaf, ID: 2, Flags: MenuItemEnabled, Label: "Quit"},
		}},
		{Title: "Edit", Items: []MenuItem{
			{Kind: MenuLeaf, ID: 3, Flags: MenuItemEnabled | MenuItemChecked, Label: "Wrap"},
		}},
	}}
	encoded := EncodeMenuTree(def)
	decoded := DecodeMenuTree(encoded)
	if len(decoded.Menus) != 2 {
		t.Fatalf("expected 2 menus, got %d", len(decoded.Menus))
	}
	if decoded.Menus[0].Title != "File" || len(decoded.Menus[0].Items) != 3 {
		t.Fatalf("File menu decoded wrong: %+v", decoded.Menus[0])
	}
	if decoded.Menus[1].Items[0].Label != "Wrap" || decoded.Menus[1].Items[0].Flags != (MenuItemEnabled|MenuItemChecked) {
		t.Fatalf("Edit menu item decoded wrong: %+v", decoded.Menus[1].Items[0])
	}
}

func TestMessageRoundTrip(t *testing.T) {
	m := Message{Op: CmdCreateWindow, A: 1, B: 640, C: 480, D: 0x0002<<16 | FlagNotResizable}
	got := DecodeMessage(EncodeMessage(m))
	if got != m {
		t.Fatalf("got %+v want %+v", got, m)
	}
}
