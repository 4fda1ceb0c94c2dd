package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zaynotley/uicompositor/internal/desktop"
	"github.com/zaynotley/uicompositor/internal/scheduler"
)

// inputBridge implements hostdisplay.InputSink. Every callback arrives on
// ebiten's single-threaded update goroutine; the bridge never touches the
// Desktop directly, instead queueing a ManagementWork batch that runs
// serialized with IPC dispatch under the scheduler's shared mutex.
type inputBridge struct {
	sched *scheduler.Scheduler

	lastX, lastY int
	mouse        desktop.MouseState
	mods         uint32
}

func newInputBridge(sched *scheduler.Scheduler) *inputBridge {
	return &inputBridge{sched: sched}
}

func (b *inputBridge) OnMouseMove(x, y int) {
	dx, dy := x-b.lastX, y-b.lastY
	b.lastX, b.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}
	now := time.Now()
	b.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
		d.ApplyMouseMove(&b.mouse, dx, dy, now)
	}})
}

func (b *inputBridge) OnMouseButton(button int, pressed bool) {
	now := time.Now()
	b.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
		if pressed {
			b.mouse.Buttons |= 1 << uint(button)
		} else {
			b.mouse.Buttons &^= 1 << uint(button)
		}
		d.HandleMouseButton(&b.mouse, pressed, now)
	}})
}

func (b *inputBridge) OnScroll(dx, dy float64) {
	dz := int32(dy)
	if dz == 0 {
		return
	}
	b.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
		d.HandleScroll(dz)
	}})
}

func (b *inputBridge) OnKey(code uint32, pressed bool) {
	b.trackModifier(code, pressed)
	mods := b.mods
	b.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
		d.HandleKey(pressed, code, 0, mods)
	}})
}

const (
	modShift uint32 = 1 << iota
	modCtrl
	modAlt
)

func (b *inputBridge) trackModifier(code uint32, pressed bool) {
	var bit uint32
	switch ebiten.Key(code) {
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
		bit = modShift
	case ebiten.KeyControlLeft, ebiten.KeyControlRight:
		bit = modCtrl
	case ebiten.KeyAltLeft, ebiten.KeyAltRight:
		bit = modAlt
	default:
		return
	}
	if pressed {
		b.mods |= bit
	} else {
		b.mods &^= bit
	}
}

// OnText and OnPasteText both synthesize a key-down/key-up pair carrying
// the rune as the event's char field, since the wire protocol has no
// separate text-input command.
func (b *inputBridge) OnText(r rune) {
	b.submitChar(r)
}

func (b *inputBridge) OnPasteText(text string) {
	for _, r := range text {
		b.submitChar(r)
	}
}

func (b *inputBridge) submitChar(r rune) {
	mods := b.mods
	b.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
		d.HandleKey(true, 0, uint32(r), mods)
		d.HandleKey(false, 0, uint32(r), mods)
	}})
}

func (b *inputBridge) OnResize(w, h int) {
	b.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
		d.OnResolutionChange(w, h)
	}})
}
