package ipc

import (
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zaynotley/uicompositor/internal/desktop"
	"github.com/zaynotley/uicompositor/internal/scheduler"
	"github.com/zaynotley/uicompositor/internal/wsproto"
)

// eventFlushInterval is how often queued window and tray events are
// drained and written out, independent of any inbound command traffic.
const eventFlushInterval = 8 * time.Millisecond

// Server listens on a Unix-domain socket for client connections and turns
// each inbound wire Message into one management-thread batch: Dispatch runs
// under the scheduler's mutex, and the resulting responses/events are
// written back out once it returns. A connection that has registered a
// subscription id (CmdRegisterSub) receives its own unicast traffic;
// everything else goes out as a broadcast to every connected client, since
// the wire protocol carries no other per-connection addressing.
type Server struct {
	listener net.Listener
	sockPath string
	sched    *scheduler.Scheduler
	disp     *Dispatcher
	log      *zap.SugaredLogger

	mu      sync.Mutex
	conns   map[net.Conn]struct{}
	bySubID map[uint32]net.Conn
	done    chan struct{}
}

// NewServer binds sockPath (removing any stale socket left by a prior run)
// and returns a Server ready to Start.
func NewServer(sockPath string, sched *scheduler.Scheduler, disp *Dispatcher, log *zap.SugaredLogger) (*Server, error) {
	os.Remove(sockPath)
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		sockPath: sockPath,
		sched:    sched,
		disp:     disp,
		log:      log,
		conns:    make(map[net.Conn]struct{}),
		bySubID:  make(map[uint32]net.Conn),
		done:     make(chan struct{}),
	}, nil
}

// Start begins accepting client connections and flushing queued
// window/tray events, both in background goroutines.
func (s *Server) Start() {
	go s.acceptLoop()
	go s.flushLoop()
}

// flushLoop periodically submits a management-thread batch that drains
// every window's event queue and the windowless tray-click queue, routing
// each drained message the same way a command response would be routed.
func (s *Server) flushLoop() {
	ticker := time.NewTicker(eventFlushInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
			s.routeWindowEvents(d, d.DrainWindowEvents())
			s.routeTrayEvents(d.DrainTrayEvents())
		}})
	}
}

func (s *Server) routeWindowEvents(d *desktop.Desktop, events []desktop.WindowEvent) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		wire := wsproto.EncodeMessage(ev.Msg)
		if subID, ok := d.SubForTid(ev.OwnerTid); ok {
			if c, ok := s.bySubID[subID]; ok {
				c.Write(wire)
				continue
			}
		}
		for c := range s.conns {
			c.Write(wire)
		}
	}
}

func (s *Server) routeTrayEvents(events []wsproto.Message) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range events {
		wire := wsproto.EncodeMessage(m)
		for c := range s.conns {
			c.Write(wire)
		}
	}
}

// Stop closes the listener and every open connection, then removes the
// socket file.
func (s *Server) Stop() {
	s.listener.Close()
	<-s.done
	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	os.Remove(s.sockPath)
}

func (s *Server) acceptLoop() {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		go s.readLoop(conn)
	}
}

func (s *Server) readLoop(conn net.Conn) {
	defer s.dropConn(conn)

	buf := make([]byte, wsproto.MessageSize)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		msg := wsproto.DecodeMessage(buf)

		// ALLOC_SHM never touches the desktop: it only needs the registry,
		// so it runs straight against the registry's own mmap/memfd_create
		// call instead of queueing onto the management thread.
		if msg.Op == wsproto.CmdAllocShm {
			s.handleAllocShm(conn, msg)
			continue
		}

		if msg.Op == wsproto.CmdRegisterSub {
			s.bindSub(msg.B, conn)
		}
		s.sched.Submit(scheduler.ManagementWork{Apply: func(d *desktop.Desktop) {
			routed := s.disp.Dispatch(d, msg)
			s.route(routed)
		}})
	}
}

func (s *Server) handleAllocShm(conn net.Conn, msg wsproto.Message) {
	handle, err := s.disp.AllocateShm(int(msg.A))
	if err != nil {
		if s.log != nil {
			s.log.Warnw("alloc_shm failed", "size", msg.A, "err", err)
		}
		return
	}
	resp := wsproto.Message{Op: wsproto.RespShmAllocated, A: handle}
	conn.Write(wsproto.EncodeMessage(resp))
}

// route writes each Routed response to its bound connection, falling back
// to a broadcast when no subscription is registered for it.
func (s *Server) route(routed []Routed) {
	if len(routed) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range routed {
		wire := wsproto.EncodeMessage(r.Msg)
		if r.Broadcast {
			for c := range s.conns {
				c.Write(wire)
			}
			continue
		}
		if c, ok := s.bySubID[r.SubID]; ok {
			c.Write(wire)
		}
	}
}

func (s *Server) dropConn(conn net.Conn) {
	conn.Close()
	s.mu.Lock()
	delete(s.conns, conn)
	for sub, c := range s.bySubID {
		if c == conn {
			delete(s.bySubID, sub)
		}
	}
	s.mu.Unlock()
}

func (s *Server) bindSub(subID uint32, conn net.Conn) {
	s.mu.Lock()
	s.bySubID[subID] = conn
	s.mu.Unlock()
}
