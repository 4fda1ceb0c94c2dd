package ipc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zaynotley/uicompositor/internal/compositor"
	"github.com/zaynotley/uicompositor/internal/desktop"
	"github.com/zaynotley/uicompositor/internal/pixel"
	"github.com/zaynotley/uicompositor/internal/scheduler"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

type fakeFB struct{ w, h int }

func (f fakeFB) Width() int                                  { return f.w }
func (f fakeFB) Height() int                                 { return f.h }
func (f fakeFB) WriteRect(x, y, w, h int, src []pixel.Color) {}

func newTestServer(t *testing.T) (*Server, *scheduler.Scheduler) {
	t.Helper()
	comp := compositor.New(320, 240, nil)
	d := desktop.New(comp, 320, 240, zap.NewNop().Sugar())
	sched := scheduler.New(d, fakeFB{320, 240}, time.Millisecond, zap.NewNop().Sugar())
	disp := New(d.Shm, zap.NewNop().Sugar())

	sockPath := filepath.Join(t.TempDir(), "ws.sock")
	srv, err := NewServer(sockPath, sched, disp, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		srv.Stop()
	})
	go sched.Run(ctx)
	srv.Start()
	return srv, sched
}

func dialServer(t *testing.T, sockPath string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("unix", sockPath, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.SetDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestCreateWindowRoundTripOverSocket(t *testing.T) {
	srv, _ := newTestServer(t)

	conn := dialServer(t, srv.sockPath)
	defer conn.Close()

	alloc := wsproto.Message{Op: wsproto.CmdAllocShm, A: 640 * 480 * 4}
	if _, err := conn.Write(wsproto.EncodeMessage(alloc)); err != nil {
		t.Fatalf("write alloc: %v", err)
	}
	allocBuf := make([]byte, wsproto.MessageSize)
	if _, err := readFull(conn, allocBuf); err != nil {
		t.Fatalf("read alloc response: %v", err)
	}
	allocResp := wsproto.DecodeMessage(allocBuf)
	if allocResp.Op != wsproto.RespShmAllocated {
		t.Fatalf("expected RespShmAllocated, got %+v", allocResp)
	}
	handle := allocResp.A

	create := wsproto.Message{Op: wsproto.CmdCreateWindow, A: 42, B: 640, C: 480, D: handle << 16}
	if _, err := conn.Write(wsproto.EncodeMessage(create)); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, wsproto.MessageSize)
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("read response: %v", err)
	}
	resp := wsproto.DecodeMessage(buf)
	if resp.Op != wsproto.RespWindowCreated {
		t.Fatalf("expected RespWindowCreated, got %+v", resp)
	}
	if resp.C != 42 {
		t.Fatalf("expected response tagged with tid 42, got %+v", resp)
	}
}

// allocAndCreate performs the alloc-shm -> create-window handshake a real
// client must do before any other command can reference the window, and
// returns the created window id.
func allocAndCreate(t *testing.T, conn net.Conn, tid, w, h uint32) uint32 {
	t.Helper()
	alloc := wsproto.Message{Op: wsproto.CmdAllocShm, A: w * h * 4}
	if _, err := conn.Write(wsproto.EncodeMessage(alloc)); err != nil {
		t.Fatalf("write alloc: %v", err)
	}
	buf := make([]byte, wsproto.MessageSize)
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("read alloc response: %v", err)
	}
	handle := wsproto.DecodeMessage(buf).A

	create := wsproto.Message{Op: wsproto.CmdCreateWindow, A: tid, B: w, C: h, D: handle << 16}
	if _, err := conn.Write(wsproto.EncodeMessage(create)); err != nil {
		t.Fatalf("write create: %v", err)
	}
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("read create response: %v", err)
	}
	resp := wsproto.DecodeMessage(buf)
	if resp.Op != wsproto.RespWindowCreated {
		t.Fatalf("expected RespWindowCreated, got %+v", resp)
	}
	return resp.A
}

func TestDestroyWindowRoundTripOverSocket(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialServer(t, srv.sockPath)
	defer conn.Close()

	windowID := allocAndCreate(t, conn, 7, 320, 240)

	destroy := wsproto.Message{Op: wsproto.CmdDestroyWindow, A: windowID}
	if _, err := conn.Write(wsproto.EncodeMessage(destroy)); err != nil {
		t.Fatalf("write destroy: %v", err)
	}
	buf := make([]byte, wsproto.MessageSize)
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("read destroy response: %v", err)
	}
	resp := wsproto.DecodeMessage(buf)
	if resp.Op != wsproto.RespWindowDestroyed {
		t.Fatalf("expected RespWindowDestroyed, got %+v", resp)
	}
	if resp.A != windowID || resp.C != 0 {
		t.Fatalf("expected destroyed window %d with 0 remaining, got %+v", windowID, resp)
	}
}

func TestSetMenuRoundTripOverSocket(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialServer(t, srv.sockPath)
	defer conn.Close()

	windowID := allocAndCreate(t, conn, 9, 320, 240)

	alloc := wsproto.Message{Op: wsproto.CmdAllocShm, A: 256}
	if _, err := conn.Write(wsproto.EncodeMessage(alloc)); err != nil {
		t.Fatalf("write alloc: %v", err)
	}
	buf := make([]byte, wsproto.MessageSize)
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("read alloc response: %v", err)
	}
	menuHandle := wsproto.DecodeMessage(buf).A

	setMenu := wsproto.Message{Op: wsproto.CmdSetMenu, A: windowID, B: menuHandle}
	if _, err := conn.Write(wsproto.EncodeMessage(setMenu)); err != nil {
		t.Fatalf("write set_menu: %v", err)
	}
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("read set_menu response: %v", err)
	}
	resp := wsproto.DecodeMessage(buf)
	if resp.Op != wsproto.RespMenuSet || resp.A != windowID {
		t.Fatalf("expected RespMenuSet for window %d, got %+v", windowID, resp)
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
