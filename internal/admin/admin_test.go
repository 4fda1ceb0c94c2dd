package admin

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zaynotley/uicompositor/internal/debugconsole"
)

type fakeStatus struct {
	windows, layers int
	light           bool
}

func (f fakeStatus) WindowCount() int  { return f.windows }
func (f fakeStatus) LayerCount() int   { return f.layers }
func (f fakeStatus) ThemeIsLight() bool { return f.light }

func dial(t *testing.T, path string, req Request) Response {
	t.Helper()
	conn, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(time.Second))

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var resp Response
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestStatusCommandReportsCounts(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "admin.sock")
	console := debugconsole.New(nil)
	srv, err := New(sockPath, fakeStatus{windows: 2, layers: 3, light: true}, console, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	resp := dial(t, sockPath, Request{Cmd: "status"})
	if resp.Status != "ok" {
		t.Fatalf("expected ok status, got %+v", resp)
	}
	if resp.Result != "windows=2 layers=3 theme=light" {
		t.Fatalf("unexpected status result: %q", resp.Result)
	}
}

func TestEvalCommandRunsLua(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "admin.sock")
	console := debugconsole.New(nil)
	srv, err := New(sockPath, fakeStatus{}, console, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	resp := dial(t, sockPath, Request{Cmd: "eval", Line: "return 1+1"})
	if resp.Status != "ok" || resp.Result != "2" {
		t.Fatalf("expected eval result 2, got %+v", resp)
	}
}

func TestUnknownCommandIsRejected(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "admin.sock")
	srv, err := New(sockPath, fakeStatus{}, debugconsole.New(nil), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv.Start()
	defer srv.Stop()

	resp := dial(t, sockPath, Request{Cmd: "bogus"})
	if resp.Status != "err" {
		t.Fatalf("expected err status for unknown command, got %+v", resp)
	}
}
