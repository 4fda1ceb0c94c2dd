package damage

import (
	"testing"

	"github.com/zaynotley/uicompositor/internal/geom"
)

func TestTakeRegionsClearsTracker(t *testing.T) {
	tr := New()
	tr.Add(geom.Rect{X: 0, Y: 0, W: 10, H: 10}, 100, 100)
	if tr.IsEmpty() {
		t.Fatal("expected pending damage after Add")
	}
	regions := tr.TakeRegions(100, 100)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if !tr.IsEmpty() {
		t.Fatal("tracker must be empty immediately after TakeRegions")
	}
}

func TestDamageAllReturnsFullScreen(t *testing.T) {
	tr := New()
	tr.Add(geom.Rect{X: 0, Y: 0, W: 5, H: 5}, 640, 480)
	tr.DamageAll()
	regions := tr.TakeRegions(640, 480)
	if len(regions) != 1 || regions[0] != (geom.Rect{X: 0, Y: 0, W: 640, H: 480}) {
		t.Fatalf("expected single full-screen region, got %+v", regions)
	}
}

func TestAddClipsToScreen(t *testing.T) {
	tr := New()
	tr.Add(geom.Rect{X: -10, Y: -10, W: 30, H: 30}, 20, 20)
	regions := tr.TakeRegions(20, 20)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0] != (geom.Rect{X: 0, Y: 0, W: 20, H: 20}) {
		t.Fatalf("expected clipped region, got %+v", regions[0])
	}
}

func TestAddEmptyRectIgnored(t *testing.T) {
	tr := New()
	tr.Add(geom.Rect{X: 5, Y: 5, W: 0, H: 0}, 100, 100)
	if !tr.IsEmpty() {
		t.Fatal("empty rect must not register damage")
	}
}
