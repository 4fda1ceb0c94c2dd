// Package hostdisplay is the ebiten-backed host window: it owns the OS
// window, presents the composed back buffer each frame, and is the raw
// input source (key/mouse edge detection, paste) the management thread
// turns into InputRouter calls.
package hostdisplay

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/zaynotley/uicompositor/internal/pixel"
)

// InputSink receives edge-triggered input from the host window. Calls
// happen on ebiten's update goroutine; the sink is responsible for
// queueing work onto the management thread rather than touching shared
// state directly.
type InputSink interface {
	OnMouseMove(x, y int)
	OnMouseButton(button int, pressed bool)
	OnScroll(dx, dy float64)
	OnKey(code uint32, pressed bool)
	OnText(r rune)
	OnPasteText(text string)
	OnResize(w, h int)
}

// Host is the ebiten-backed presenter and input source. It implements
// compositor.Framebuffer by buffering writes into an *ebiten.Image-backed
// pixel slice that Draw blits to the screen every ebiten frame.
type Host struct {
	mu     sync.RWMutex
	pixels []pixel.Color
	width  int
	height int
	image  *ebiten.Image

	sink InputSink

	clipboardOnce sync.Once
	clipboardOK   bool
}

// New builds a host window of the given size. Call Run to start the
// ebiten event loop; Run blocks until the window is closed.
func New(width, height int, sink InputSink) *Host {
	return &Host{
		pixels: make([]pixel.Color, width*height),
		width:  width,
		height: height,
		sink:   sink,
	}
}

func (h *Host) Width() int  { return h.width }
func (h *Host) Height() int { return h.height }

// WriteRect implements compositor.Framebuffer: copies w*h pixels from src
// (row-major, stride==w) into the host's backing slice at (x,y).
func (h *Host) WriteRect(x, y, w, h2 int, src []pixel.Color) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for row := 0; row < h2; row++ {
		dstOff := (y+row)*h.width + x
		srcOff := row * w
		copy(h.pixels[dstOff:dstOff+w], src[srcOff:srcOff+w])
	}
}

// Run starts the blocking ebiten event loop. It returns when the window
// is closed.
func (h *Host) Run(title string) error {
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(h)
}

// Update implements ebiten.Game: polls edge-triggered input and forwards
// it to the sink.
func (h *Host) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if h.sink == nil {
		return nil
	}

	mx, my := ebiten.CursorPosition()
	h.sink.OnMouseMove(mx, my)

	for btn, code := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(btn) {
			h.sink.OnMouseButton(code, true)
		}
		if inpututil.IsMouseButtonJustReleased(btn) {
			h.sink.OnMouseButton(code, false)
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		h.sink.OnScroll(dx, dy)
	}

	h.pollKeys()
	for _, r := range ebiten.AppendInputChars(nil) {
		h.sink.OnText(r)
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		h.handlePaste()
	}

	return nil
}

var allKeys = []ebiten.Key{
	ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeyBackspace, ebiten.KeyTab,
	ebiten.KeyEscape, ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowRight,
	ebiten.KeyArrowLeft, ebiten.KeyHome, ebiten.KeyEnd, ebiten.KeyDelete,
	ebiten.KeyShiftLeft, ebiten.KeyShiftRight, ebiten.KeyControlLeft, ebiten.KeyControlRight,
	ebiten.KeyAltLeft, ebiten.KeyAltRight,
}

var mouseButtons = map[ebiten.MouseButton]int{
	ebiten.MouseButtonLeft:   0,
	ebiten.MouseButtonRight:  1,
	ebiten.MouseButtonMiddle: 2,
}

func (h *Host) pollKeys() {
	for _, k := range allKeys {
		if inpututil.IsKeyJustPressed(k) {
			h.sink.OnKey(uint32(k), true)
		}
		if inpututil.IsKeyJustReleased(k) {
			h.sink.OnKey(uint32(k), false)
		}
	}
}

func (h *Host) handlePaste() {
	h.clipboardOnce.Do(func() {
		h.clipboardOK = clipboard.Init() == nil
	})
	if !h.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	h.sink.OnPasteText(string(data))
}

// Draw implements ebiten.Game: blits the buffered pixels to the screen.
func (h *Host) Draw(screen *ebiten.Image) {
	h.mu.RLock()
	if h.image == nil {
		h.image = ebiten.NewImage(h.width, h.height)
	}
	raw := make([]byte, len(h.pixels)*4)
	for i, c := range h.pixels {
		raw[i*4+0] = c.R()
		raw[i*4+1] = c.G()
		raw[i*4+2] = c.B()
		raw[i*4+3] = c.A()
	}
	h.mu.RUnlock()

	h.image.WritePixels(raw)
	screen.DrawImage(h.image, nil)
}

// Layout implements ebiten.Game: adopts the outside size as the logical
// size (reallocating the pixel buffer) and notifies the sink when it
// changes.
func (h *Host) Layout(outsideW, outsideH int) (int, int) {
	h.mu.Lock()
	changed := outsideW != h.width || outsideH != h.height
	if changed {
		h.width, h.height = outsideW, outsideH
		h.pixels = make([]pixel.Color, outsideW*outsideH)
		h.image = nil
	}
	h.mu.Unlock()
	if changed && h.sink != nil {
		h.sink.OnResize(outsideW, outsideH)
	}
	return h.width, h.height
}
