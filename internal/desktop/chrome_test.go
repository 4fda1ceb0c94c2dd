package desktop

import "testing"

func TestPaintTitleTextSkipsEmptyTitle(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 200, 150)
	win.Title = ""
	buf := d.Comp.Layer(win.LayerID).Buf
	for i := range buf.Pix {
		buf.Pix[i] = 0
	}
	d.paintTitleText(buf, win)
	for i, p := range buf.Pix {
		if p.A() != 0 {
			t.Fatalf("pixel %d: an empty title must not paint anything", i)
		}
	}
}

func TestPaintTitleTextPaintsNonEmptyTitle(t *testing.T) {
	d := newTestDesktop(t)
	win := newTestWindow(d, 200, 150)
	win.Title = "My Window"
	d.renderChrome(win)

	buf := d.Comp.Layer(win.LayerID).Buf
	titleBand := false
	for y := 0; y < TitleBarHeight; y++ {
		for x := 0; x < buf.Stride; x++ {
			if buf.Pix[y*buf.Stride+x].A() != 0 {
				titleBand = true
			}
		}
	}
	if !titleBand {
		t.Fatal("rendering chrome with a non-empty title must paint pixels into the title bar band")
	}
}
