// Package gpu2d models the optional GPU 2D acceleration command stream:
// RectFill, RectCopy, CursorDefine, CursorMove, CursorShow, consumed by
// hardware and made visible at an explicit Flush boundary.
//
// Two build-tagged backends exist: a `gpu`-tagged backend using
// goki/vulkan, and a default headless backend that accepts the same
// commands and silently drops them when no GPU is available.
package gpu2d

import "github.com/zaynotley/uicompositor/internal/pixel"

type CommandKind int

const (
	RectFill CommandKind = iota
	RectCopy
	CursorDefine
	CursorMove
	CursorShow
)

type Command struct {
	Kind          CommandKind
	X, Y, W, H    int
	SX, SY        int
	Color         pixel.Color
	HX, HY        int
	CursorPixels  []pixel.Color
	CursorVisible bool
}

// Stream is the single-writer command sink the compositor pushes to during
// compose and cursor updates; Flush makes all prior commands visible.
type Stream interface {
	Enabled() bool
	Push(cmd Command)
	Flush()
	Close()
}
