// Package debugconsole is a Lua-scriptable REPL for inspecting live
// compositor state, reachable only over the admin Unix socket, never from
// client IPC. It tracks a closed console activation state, a bounded
// scrollback buffer, and a line-buffered command history.
package debugconsole

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State is the console's activation state.
type State int

const (
	Inactive State = iota
	Active
)

// OutputLine is one line of console scrollback.
type OutputLine struct {
	Text string
}

// Inspector exposes the read-only compositor facts the console's built-in
// Lua globals query. Implemented by whatever owns the Desktop/Compositor
// pair; kept narrow and read-only since the console never mutates state.
type Inspector interface {
	WindowCount() int
	LayerCount() int
	FocusedWindowID() (uint32, bool)
	ThemeIsLight() bool
}

// Console is the Lua-scriptable debug REPL.
type Console struct {
	mu    sync.Mutex
	state State

	inspector Inspector

	output    []OutputLine
	maxOutput int

	history    []string
	historyIdx int

	vm *lua.LState
}

// New builds a console bound to insp. The Lua VM is created lazily on
// first Eval so an unused console costs nothing.
func New(insp Inspector) *Console {
	return &Console{
		inspector: insp,
		maxOutput: 500,
	}
}

// Activate marks the console as in use; a no-op if already active.
func (c *Console) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Active {
		return
	}
	c.state = Active
	c.appendOutput("debug console ready; type help() for available globals")
}

// Deactivate marks the console idle and releases the Lua VM.
func (c *Console) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vm != nil {
		c.vm.Close()
		c.vm = nil
	}
	c.state = Inactive
}

// IsActive reports whether the console is currently in use.
func (c *Console) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Active
}

// Eval runs one line of Lua, appends its output to the scrollback buffer,
// and returns the rendered result text.
func (c *Console) Eval(line string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, line)
	c.historyIdx = len(c.history)

	if c.vm == nil {
		c.vm = lua.NewState()
		c.registerGlobals(c.vm)
	}

	if err := c.vm.DoString(line); err != nil {
		msg := fmt.Sprintf("error: %v", err)
		c.appendOutput(msg)
		return msg
	}

	ret := c.vm.Get(-1)
	c.vm.Pop(1)
	out := lua.LVAsString(ret)
	c.appendOutput(out)
	return out
}

// History returns the command history in chronological order.
func (c *Console) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// Output returns the scrollback buffer in chronological order.
func (c *Console) Output() []OutputLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]OutputLine, len(c.output))
	copy(out, c.output)
	return out
}

func (c *Console) appendOutput(text string) {
	c.output = append(c.output, OutputLine{Text: text})
	if len(c.output) > c.maxOutput {
		c.output = c.output[len(c.output)-c.maxOutput:]
	}
}

// registerGlobals exposes read-only compositor facts as Lua global
// functions: windows(), layers(), focused(), theme().
func (c *Console) registerGlobals(vm *lua.LState) {
	insp := c.inspector
	vm.SetGlobal("windows", vm.NewFunction(func(L *lua.LState) int {
		if insp == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(insp.WindowCount()))
		return 1
	}))
	vm.SetGlobal("layers", vm.NewFunction(func(L *lua.LState) int {
		if insp == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(insp.LayerCount()))
		return 1
	}))
	vm.SetGlobal("focused", vm.NewFunction(func(L *lua.LState) int {
		if insp == nil {
			L.Push(lua.LNil)
			return 1
		}
		id, ok := insp.FocusedWindowID()
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(id))
		return 1
	}))
	vm.SetGlobal("theme", vm.NewFunction(func(L *lua.LState) int {
		if insp == nil {
			L.Push(lua.LString("unknown"))
			return 1
		}
		if insp.ThemeIsLight() {
			L.Push(lua.LString("light"))
		} else {
			L.Push(lua.LString("dark"))
		}
		return 1
	}))
	vm.SetGlobal("help", vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("globals: windows(), layers(), focused(), theme()"))
		return 1
	}))
}
