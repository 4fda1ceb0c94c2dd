// Package pixel implements bounds-checked raster primitives over a linear
// ARGB8888 buffer addressed as a flat []uint32 with an explicit row stride.
package pixel

import (
	"image"
	stdcolor "image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Color is a packed 0xAARRGGBB value. Alpha 255 is fully opaque, 0 fully
// transparent.
type Color uint32

func RGBA(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// textFace is the fixed-width bitmap face used for all on-screen text: title
// bars, menu titles and items, and the clock. Font rasterization is treated
// as a black-box service rather than something to hand-roll.
var textFace = basicfont.Face7x13

// TextWidth returns the pixel width text occupies when drawn with DrawText.
func TextWidth(text string) int {
	d := font.Drawer{Face: textFace}
	return d.MeasureString(text).Ceil()
}

// TextHeight returns the font's line height in pixels.
func TextHeight() int { return textFace.Metrics().Height.Ceil() }

// DrawText rasterizes text in color with its top-left corner at (x,y),
// alpha-compositing each glyph pixel over the buffer's existing contents.
func DrawText(buf *Buffer, x, y int, text string, color Color) {
	w := TextWidth(text)
	if w <= 0 {
		return
	}
	h := TextHeight()
	ascent := textFace.Metrics().Ascent.Ceil()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(stdcolor.NRGBA{R: color.R(), G: color.G(), B: color.B(), A: color.A()}),
		Face: textFace,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			_, _, _, a := img.At(px, py).RGBA()
			if a == 0 {
				continue
			}
			r, g, b, _ := img.At(px, py).RGBA()
			setPixel(buf, x+px, y+py, RGBA(uint8(a>>8), uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}
}

// Buffer is a mutable ARGB surface: Pix has length Stride*Height, addressed
// row-major.
type Buffer struct {
	Pix    []Color
	Stride int
	Height int
}

func NewBuffer(w, h int) *Buffer {
	return &Buffer{Pix: make([]Color, w*h), Stride: w, Height: h}
}

func (b *Buffer) at(x, y int) int { return y*b.Stride + x }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.Stride && y >= 0 && y < b.Height
}

// AlphaBlend composites src over dst using premultiplied-style 8-bit
// compositing. When src has full alpha, src is returned unchanged.
func AlphaBlend(src, dst Color) Color {
	a := src.A()
	if a == 255 {
		return src
	}
	if a == 0 {
		return dst
	}
	ia := 255 - uint32(a)
	r := (uint32(src.R())*uint32(a) + uint32(dst.R())*ia) / 255
	g := (uint32(src.G())*uint32(a) + uint32(dst.G())*ia) / 255
	bl := (uint32(src.B())*uint32(a) + uint32(dst.B())*ia) / 255
	outA := (uint32(a)*255 + uint32(dst.A())*ia) / 255
	return RGBA(uint8(outA), uint8(r), uint8(g), uint8(bl))
}

// FillRect overwrites (alpha=255) or source-over blends (alpha<255) a
// rectangle clipped to the buffer bounds. Out-of-bounds coordinates clip
// silently; no error is returned.
func FillRect(buf *Buffer, x, y, w, h int, color Color) {
	x0, y0, x1, y1 := clipRect(buf, x, y, w, h)
	opaque := color.A() == 255
	for py := y0; py < y1; py++ {
		row := py * buf.Stride
		for px := x0; px < x1; px++ {
			idx := row + px
			if opaque {
				buf.Pix[idx] = color
			} else {
				buf.Pix[idx] = AlphaBlend(color, buf.Pix[idx])
			}
		}
	}
}

func clipRect(buf *Buffer, x, y, w, h int) (x0, y0, x1, y1 int) {
	x0, y0 = x, y
	x1, y1 = x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > buf.Stride {
		x1 = buf.Stride
	}
	if y1 > buf.Height {
		y1 = buf.Height
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// cornerCovered tests pixel-center coverage of a corner pixel (dx,dy offset
// from the corner's own origin, radius r) against the rounded-rect disc
// equation (2dx+1-2r)^2 + (2dy+1-2r)^2 <= (2r)^2. No boundary anti-aliasing.
func cornerCovered(dx, dy, r int) bool {
	a := 2*dx + 1 - 2*r
	b := 2*dy + 1 - 2*r
	return a*a+b*b <= (2*r)*(2*r)
}

// FillRoundedRect fills a rectangle with four quarter-disc corners of the
// given radius. Radius 0 degrades to a plain FillRect (invariant checked by
// TestFillRoundedRectRadiusZeroEqualsFillRect).
func FillRoundedRect(buf *Buffer, x, y, w, h, radius int, color Color) {
	if radius <= 0 {
		FillRect(buf, x, y, w, h, color)
		return
	}
	if radius*2 > w {
		radius = w / 2
	}
	if radius*2 > h {
		radius = h / 2
	}
	fillRoundedRows(buf, x, y, w, h, radius, color, true, true)
}

// FillRoundedRectTop rounds only the top two corners; the bottom edge is
// square. Used for title-bar chrome.
func FillRoundedRectTop(buf *Buffer, x, y, w, h, radius int, color Color) {
	if radius <= 0 {
		FillRect(buf, x, y, w, h, color)
		return
	}
	if radius*2 > w {
		radius = w / 2
	}
	if radius*2 > h {
		radius = h / 2
	}
	fillRoundedRows(buf, x, y, w, h, radius, color, true, false)
}

func fillRoundedRows(buf *Buffer, x, y, w, h, radius int, color Color, roundTop, roundBottom bool) {
	for row := 0; row < h; row++ {
		py := y + row
		left, right := x, x+w
		if roundTop && row < radius {
			dy := radius - 1 - row
			inset := radius - spanHalfWidth(dy, radius)
			left, right = x+inset, x+w-inset
		} else if roundBottom && row >= h-radius {
			dy := row - (h - radius)
			inset := radius - spanHalfWidth(dy, radius)
			left, right = x+inset, x+w-inset
		}
		FillRect(buf, left, py, right-left, 1, color)
	}
}

// spanHalfWidth returns the widest dx within [0,radius) such that the
// corner pixel at (dx,dy) is covered by the disc, using the same boundary
// test FillRoundedRect's corner pixels use, so the two never disagree.
func spanHalfWidth(dy, radius int) int {
	best := 0
	for dx := 0; dx < radius; dx++ {
		if cornerCovered(dx, dy, radius) {
			best = dx + 1
		}
	}
	return best
}

// DrawRoundedRectOutline strokes a 1px border following the same corner
// equation as FillRoundedRect.
func DrawRoundedRectOutline(buf *Buffer, x, y, w, h, radius int, color Color) {
	FillRect(buf, x, y, w, 1, color)
	FillRect(buf, x, y+h-1, w, 1, color)
	FillRect(buf, x, y, 1, h, color)
	FillRect(buf, x+w-1, y, 1, h, color)
	if radius <= 0 {
		return
	}
	for dy := 0; dy < radius; dy++ {
		for dx := 0; dx < radius; dx++ {
			if !cornerCovered(dx, dy, radius) {
				continue
			}
			inner := dx+1 < radius && dy+1 < radius && cornerCovered(dx+1, dy+1, radius)
			if inner {
				continue
			}
			setPixel(buf, x+radius-1-dx, y+radius-1-dy, color)
			setPixel(buf, x+w-radius+dx, y+radius-1-dy, color)
			setPixel(buf, x+radius-1-dx, y+h-radius+dy, color)
			setPixel(buf, x+w-radius+dx, y+h-radius+dy, color)
		}
	}
}

func setPixel(buf *Buffer, x, y int, color Color) {
	if !buf.inBounds(x, y) {
		return
	}
	idx := buf.at(x, y)
	if color.A() == 255 {
		buf.Pix[idx] = color
	} else {
		buf.Pix[idx] = AlphaBlend(color, buf.Pix[idx])
	}
}

// FillCircle fills a disc of radius r centered at (cx,cy). Interior rows are
// filled solid; boundary pixels are antialiased via
// alpha = 255*(r^2+r-dist^2)/(2r), applied only to the outermost 1-2 pixel
// columns of each scanline as the original formula specifies.
func FillCircle(buf *Buffer, cx, cy, r int, color Color) {
	if r <= 0 {
		return
	}
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		rem := rr - dy*dy
		if rem < 0 {
			continue
		}
		dxMax := int(math.Sqrt(float64(rem)))
		FillRect(buf, cx-dxMax, cy+dy, 2*dxMax+1, 1, color)
		for _, dx := range []int{-dxMax - 1, -dxMax, dxMax, dxMax + 1} {
			dist2 := dx*dx + dy*dy
			lo := (r-1)*(r-1)
			hi := (r+1)*(r+1)
			if dist2 <= lo || dist2 >= hi {
				continue
			}
			alpha := 255 * (rr + r - dist2) / (2 * r)
			if alpha < 0 {
				alpha = 0
			}
			if alpha > 255 {
				alpha = 255
			}
			c := RGBA(uint8(alpha), color.R(), color.G(), color.B())
			setPixel(buf, cx+dx, cy+dy, c)
		}
	}
}
