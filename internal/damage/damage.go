// Package damage tracks the screen regions that must be recomposited before
// the next framebuffer flush: a disjoint rect list with opportunistic
// merging, plus a sticky damage-all flag.
package damage

import "github.com/zaynotley/uicompositor/internal/geom"

// Tracker accumulates dirty rectangles between compose cycles. Not
// goroutine-safe on its own; callers hold the compositor's mutex.
type Tracker struct {
	regions []geom.Rect
	all     bool
}

func New() *Tracker { return &Tracker{} }

// Add clips rect to the screen and records it, repeatedly merging it with
// any region it overlaps or touches until no such region is left, so the
// list stays disjoint (the merge is a bounding-box union, not maximal:
// composing the returned regions is never more total area than composing
// the whole screen when DamageAll fires, and strictly less on the common
// single- or few-window motion case).
func (t *Tracker) Add(rect geom.Rect, screenW, screenH int) {
	if t.all {
		return
	}
	r := rect.ClipToScreen(screenW, screenH)
	if r.Empty() {
		return
	}
	for merged := true; merged; {
		merged = false
		for i, existing := range t.regions {
			if existing.Intersects(r) || adjacent(existing, r) {
				r = existing.Union(r)
				t.regions = append(t.regions[:i], t.regions[i+1:]...)
				merged = true
				break
			}
		}
	}
	t.regions = append(t.regions, r)
}

// adjacent treats touching (not just overlapping) rects as mergeable so a
// sequence of small nearby damages doesn't grow the list unboundedly.
func adjacent(a, b geom.Rect) bool {
	return a.Expand(1).Intersects(b)
}

// DamageAll marks the full screen dirty and discards any partial regions.
func (t *Tracker) DamageAll() {
	t.all = true
	t.regions = nil
}

// IsEmpty reports whether there is nothing to recompose.
func (t *Tracker) IsEmpty() bool {
	return !t.all && len(t.regions) == 0
}

// TakeRegions returns the disjoint regions to recomposite this frame and
// clears the tracker. After this call returns, IsEmpty is true until the
// next Add/DamageAll.
func (t *Tracker) TakeRegions(screenW, screenH int) []geom.Rect {
	if t.all {
		t.all = false
		t.regions = nil
		return []geom.Rect{{X: 0, Y: 0, W: screenW, H: screenH}}
	}
	out := t.regions
	t.regions = nil
	return out
}
