// Package layer implements the compositor's rectangular pixel surfaces: a
// position, a pixel buffer, visibility/opacity/shadow/dirty flags, and an
// optional shared-memory backing reference.
package layer

import (
	"github.com/zaynotley/uicompositor/internal/geom"
	"github.com/zaynotley/uicompositor/internal/pixel"
)

// ShadowRadius is the fixed expansion applied to a shadowed layer's damage
// contribution.
const ShadowRadius = 8

// ShmRef describes a layer's optional shared-memory backing. MappedW/H may
// lag the layer's own W/H during a resize handshake; only the overlapping
// region is ever copied.
type ShmRef struct {
	ID      string
	MappedW int
	MappedH int
}

// Layer is a 2D ARGB image with an absolute screen position.
type Layer struct {
	ID      uint32
	X, Y    int
	Buf     *pixel.Buffer
	Visible bool
	Opaque  bool
	Shadow  bool
	Dirty   bool
	Shm     *ShmRef
}

func New(id uint32, x, y, w, h int, opaque bool) *Layer {
	return &Layer{
		ID:      id,
		X:       x,
		Y:       y,
		Buf:     pixel.NewBuffer(w, h),
		Visible: true,
		Opaque:  opaque,
	}
}

// Bounds returns the layer's screen-space rectangle, unexpanded.
func (l *Layer) Bounds() geom.Rect {
	return geom.Rect{X: l.X, Y: l.Y, W: l.Buf.Stride, H: l.Buf.Height}
}

// DamageBounds returns Bounds expanded by ShadowRadius when Shadow is set.
func (l *Layer) DamageBounds() geom.Rect {
	b := l.Bounds()
	if l.Shadow {
		return b.Expand(ShadowRadius)
	}
	return b
}

// Pixels returns the raw writable surface; callers must hold the
// compositor's mutex while mutating it.
func (l *Layer) Pixels() *pixel.Buffer { return l.Buf }

// MoveTo updates the layer's position, returning the old and new bounds so
// the caller can add both to damage.
func (l *Layer) MoveTo(x, y int) (before, after geom.Rect) {
	before = l.DamageBounds()
	l.X, l.Y = x, y
	after = l.DamageBounds()
	return
}

// Resize reallocates the pixel buffer (zeroed), returning the old and new
// bounds for damage.
func (l *Layer) Resize(w, h int) (before, after geom.Rect) {
	before = l.DamageBounds()
	l.Buf = pixel.NewBuffer(w, h)
	after = l.DamageBounds()
	return
}

func (l *Layer) SetVisible(v bool) { l.Visible = v }
func (l *Layer) SetOpaque(o bool)  { l.Opaque = o }
func (l *Layer) SetShadow(s bool)  { l.Shadow = s }
