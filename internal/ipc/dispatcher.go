// Package ipc maps the wire command set (internal/wsproto) onto Desktop
// method calls and builds the response/event messages the routing layer
// sends back to clients. A Dispatcher's Dispatch method is meant to run
// from inside a scheduler.ManagementWork callback, so it never locks the
// Desktop itself; its own mutex only guards the short-lived SHM handle
// table that bridges wire-level numeric ids to the registry's string ids.
package ipc

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zaynotley/uicompositor/internal/desktop"
	"github.com/zaynotley/uicompositor/internal/shm"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

// Routed is one outbound message paired with its delivery target: unicast
// to SubID if Broadcast is false, otherwise sent to every subscriber.
type Routed struct {
	Broadcast bool
	SubID     uint32
	Msg       wsproto.Message
}

// Dispatcher owns the bridge between wire-level SHM handles (client
// allocates, compositor maps) and shm.Registry's string ids.
type Dispatcher struct {
	mu         sync.Mutex
	shm        *shm.Registry
	handles    map[uint32]string
	nextHandle uint32
	log        *zap.SugaredLogger
}

func New(shmReg *shm.Registry, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		shm:     shmReg,
		handles: make(map[uint32]string),
		log:     log,
	}
}

// AllocateShm creates a size-byte region outside any compositor lock and
// returns its wire handle, for a client to reference in a subsequent
// command (CREATE_WINDOW, SET_MENU, ADD_STATUS_ICON, RESIZE_SHM).
func (disp *Dispatcher) AllocateShm(size int) (uint32, error) {
	reg, err := disp.shm.Create(size)
	if err != nil {
		return 0, err
	}
	disp.mu.Lock()
	disp.nextHandle++
	handle := disp.nextHandle
	disp.handles[handle] = reg.ID
	disp.mu.Unlock()
	return handle, nil
}

// take resolves and consumes a wire handle: each handle is valid for
// exactly one command.
func (disp *Dispatcher) take(handle uint32) (string, bool) {
	disp.mu.Lock()
	defer disp.mu.Unlock()
	id, ok := disp.handles[handle]
	if ok {
		delete(disp.handles, handle)
	}
	return id, ok
}

// Dispatch handles one wire command against d, which must already be
// locked by the caller (the scheduler's management-thread critical
// section). It returns the responses and events that must be routed to
// clients.
func (disp *Dispatcher) Dispatch(d *desktop.Desktop, msg wsproto.Message) []Routed {
	switch msg.Op {
	case wsproto.CmdCreateWindow:
		return disp.createWindow(d, msg)
	case wsproto.CmdDestroyWindow:
		return disp.destroyWindow(d, msg)
	case wsproto.CmdPresent:
		d.Present(msg.A)
		return nil
	case wsproto.CmdSetTitle:
		d.SetTitle(msg.A, wsproto.UnpackTitle(msg.B, msg.C, msg.D))
		return nil
	case wsproto.CmdMoveWindow:
		d.MoveWindow(msg.A, int(msg.B), int(msg.C))
		return nil
	case wsproto.CmdSetMenu:
		return disp.setMenu(d, msg)
	case wsproto.CmdAddStatusIcon:
		disp.addStatusIcon(d, msg)
		return nil
	case wsproto.CmdRemoveStatusIcon:
		d.RemoveStatusIcon(msg.A, msg.B)
		return nil
	case wsproto.CmdUpdateMenuItem:
		d.UpdateMenuItem(msg.A, msg.B, msg.C)
		return nil
	case wsproto.CmdResizeShm:
		disp.resizeShm(d, msg)
		return nil
	case wsproto.CmdRegisterSub:
		d.RegisterSub(msg.A, msg.B)
		return nil
	case wsproto.CmdFocusByTid:
		d.FocusByTid(msg.A)
		return nil
	default:
		if disp.log != nil {
			disp.log.Warnw("unrecognized ipc command", "op", msg.Op)
		}
		return nil
	}
}

func (disp *Dispatcher) route(d *desktop.Desktop, tid uint32, m wsproto.Message) Routed {
	if subID, ok := d.SubForTid(tid); ok {
		return Routed{SubID: subID, Msg: m}
	}
	return Routed{Broadcast: true, Msg: m}
}

func (disp *Dispatcher) createWindow(d *desktop.Desktop, msg wsproto.Message) []Routed {
	tid, w, h := msg.A, msg.B, msg.C
	shmHandle := msg.D >> 16
	flags := msg.D & 0xFFFF

	shmID, ok := disp.take(shmHandle)
	if !ok {
		if disp.log != nil {
			disp.log.Warnw("create_window: unknown shm handle", "handle", shmHandle)
		}
		return nil
	}
	win := d.CreateClientWindow(tid, int(w), int(h), flags, shmID)
	resp := wsproto.Message{Op: wsproto.RespWindowCreated, A: win.ID, B: shmHandle, C: tid}
	return []Routed{disp.route(d, tid, resp)}
}

func (disp *Dispatcher) destroyWindow(d *desktop.Desktop, msg wsproto.Message) []Routed {
	windowID := msg.A
	tid, ok := d.WindowOwner(windowID)
	if !ok {
		return nil
	}
	d.DestroyWindow(windowID)
	resp := wsproto.Message{Op: wsproto.RespWindowDestroyed, A: windowID, B: tid, C: uint32(d.WindowCount())}
	return []Routed{disp.route(d, tid, resp)}
}

func (disp *Dispatcher) setMenu(d *desktop.Desktop, msg wsproto.Message) []Routed {
	windowID, shmHandle := msg.A, msg.B
	shmID, ok := disp.take(shmHandle)
	if !ok {
		return nil
	}
	if !d.SetMenu(windowID, shmID) {
		return nil
	}
	tid, _ := d.WindowOwner(windowID)
	resp := wsproto.Message{Op: wsproto.RespMenuSet, A: windowID, C: tid}
	return []Routed{disp.route(d, tid, resp)}
}

func (disp *Dispatcher) addStatusIcon(d *desktop.Desktop, msg wsproto.Message) {
	tid, iconID, shmHandle := msg.A, msg.B, msg.C
	shmID, ok := disp.take(shmHandle)
	if !ok {
		return
	}
	d.AddStatusIcon(tid, iconID, shmID)
}

func (disp *Dispatcher) resizeShm(d *desktop.Desktop, msg wsproto.Message) {
	windowID, shmHandle, newW, newH := msg.A, msg.B, msg.C, msg.D
	shmID, ok := disp.take(shmHandle)
	if !ok {
		return
	}
	d.ResizeShm(windowID, shmID, int(newW), int(newH))
}

// CommandName renders a command op for logging.
func CommandName(op uint32) string {
	switch op {
	case wsproto.CmdCreateWindow:
		return "CREATE_WINDOW"
	case wsproto.CmdDestroyWindow:
		return "DESTROY_WINDOW"
	case wsproto.CmdPresent:
		return "PRESENT"
	case wsproto.CmdSetTitle:
		return "SET_TITLE"
	case wsproto.CmdMoveWindow:
		return "MOVE_WINDOW"
	case wsproto.CmdSetMenu:
		return "SET_MENU"
	case wsproto.CmdAddStatusIcon:
		return "ADD_STATUS_ICON"
	case wsproto.CmdRemoveStatusIcon:
		return "REMOVE_STATUS_ICON"
	case wsproto.CmdUpdateMenuItem:
		return "UPDATE_MENU_ITEM"
	case wsproto.CmdResizeShm:
		return "RESIZE_SHM"
	case wsproto.CmdRegisterSub:
		return "REGISTER_SUB"
	case wsproto.CmdFocusByTid:
		return "FOCUS_BY_TID"
	case wsproto.CmdAllocShm:
		return "ALLOC_SHM"
	default:
		return fmt.Sprintf("op(%d)", op)
	}
}
