// Package admin implements the compositor's operator-facing Unix-domain
// socket: read-only introspection (window count, layer count, theme value;
// no per-window list and no damage-tracker state) plus the Lua debug
// console, exposed as a small
// request/response admin protocol. It never participates in the
// client-facing wire protocol.
package admin

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/zaynotley/uicompositor/internal/debugconsole"
)

// Request is one admin-socket command.
type Request struct {
	Cmd  string `json:"cmd"`            // "status" | "eval"
	Line string `json:"line,omitempty"` // Lua source, for "eval"
}

// Response is the admin socket's reply to a Request.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  string `json:"result,omitempty"`
}

// StatusProvider reports the introspection facts the "status" command
// returns.
type StatusProvider interface {
	WindowCount() int
	LayerCount() int
	ThemeIsLight() bool
}

// Server is the admin Unix-domain socket listener.
type Server struct {
	listener net.Listener
	sockPath string
	status   StatusProvider
	console  *debugconsole.Console
	log      *zap.SugaredLogger
	done     chan struct{}
}

// New binds the admin socket at sockPath (removing any stale socket first)
// and returns a Server ready to Start.
func New(sockPath string, status StatusProvider, console *debugconsole.Console, log *zap.SugaredLogger) (*Server, error) {
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		if conn, dialErr := net.DialTimeout("unix", sockPath, 2*time.Second); dialErr == nil {
			conn.Close()
			return nil, fmt.Errorf("admin socket already bound at %s", sockPath)
		}
		os.Remove(sockPath)
		ln, err = net.Listen("unix", sockPath)
		if err != nil {
			return nil, fmt.Errorf("admin bind failed: %w", err)
		}
	}
	return &Server{
		listener: ln,
		sockPath: sockPath,
		status:   status,
		console:  console,
		log:      log,
		done:     make(chan struct{}),
	}, nil
}

// Start begins accepting admin connections in a background goroutine.
func (s *Server) Start() {
	go s.acceptLoop()
}

// Stop closes the listener, waits for the accept loop to exit, and removes
// the socket file.
func (s *Server) Stop() {
	s.listener.Close()
	<-s.done
	os.Remove(s.sockPath)
}

func (s *Server) acceptLoop() {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(30 * time.Second))

	dec := json.NewDecoder(bufio.NewReader(conn))
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		enc.Encode(Response{Status: "err", Message: "invalid json"})
		return
	}

	switch req.Cmd {
	case "status":
		enc.Encode(s.handleStatus())
	case "eval":
		enc.Encode(s.handleEval(req.Line))
	default:
		enc.Encode(Response{Status: "err", Message: "unknown command"})
	}
}

func (s *Server) handleStatus() Response {
	if s.status == nil {
		return Response{Status: "err", Message: "status unavailable"}
	}
	theme := "dark"
	if s.status.ThemeIsLight() {
		theme = "light"
	}
	return Response{
		Status: "ok",
		Result: fmt.Sprintf("windows=%d layers=%d theme=%s", s.status.WindowCount(), s.status.LayerCount(), theme),
	}
}

func (s *Server) handleEval(line string) Response {
	if s.console == nil {
		return Response{Status: "err", Message: "debug console unavailable"}
	}
	s.console.Activate()
	return Response{Status: "ok", Result: s.console.Eval(line)}
}
