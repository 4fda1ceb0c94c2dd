// Package scheduler runs the compositor's two-thread model: a render
// goroutine that composes at a fixed cadence and a management goroutine
// that drains input and IPC commands, both guarded by one coarse mutex.
// golang.org/x/sync/errgroup runs the pair, and Run returns once ctx is
// canceled. A panic inside either critical section is recovered and
// logged, and that goroutine keeps running.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zaynotley/uicompositor/internal/compositor"
	"github.com/zaynotley/uicompositor/internal/desktop"
)

// ManagementWork is one batch of raw input and IPC commands to apply under
// the shared mutex during a single management-thread tick.
type ManagementWork struct {
	Apply func(d *desktop.Desktop)
}

// Scheduler owns the shared mutex and the two supervised goroutines.
type Scheduler struct {
	mu  sync.Mutex
	log *zap.SugaredLogger

	Desktop *desktop.Desktop
	fb      compositor.Framebuffer

	renderInterval time.Duration
	work           chan ManagementWork
}

// New builds a Scheduler over an existing Desktop and render target.
func New(d *desktop.Desktop, fb compositor.Framebuffer, renderInterval time.Duration, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		log:            log,
		Desktop:        d,
		fb:             fb,
		renderInterval: renderInterval,
		work:           make(chan ManagementWork, 256),
	}
}

// Submit queues a management-thread batch; it blocks while the 256-entry
// work channel is full.
func (s *Scheduler) Submit(w ManagementWork) {
	s.work <- w
}

// SetFramebuffer binds the render target after construction, for wiring
// that must build the Scheduler before the framebuffer exists (the host
// window's input sink submits its work to the Scheduler). Must be called
// before Run.
func (s *Scheduler) SetFramebuffer(fb compositor.Framebuffer) {
	s.fb = fb
}

// Run starts the render and management goroutines and blocks until ctx is
// canceled or either goroutine returns an error.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.renderLoop(ctx) })
	g.Go(func() error { return s.managementLoop(ctx) })
	return g.Wait()
}

func (s *Scheduler) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.renderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.composeOnce(now)
		}
	}
}

// composeOnce holds the mutex for exactly one compose cycle: tick
// animations, apply any deferred wallpaper reload, and compose. Client
// events are not drained here. Nothing inside this critical section blocks
// for an unbounded time.
func (s *Scheduler) composeOnce(now time.Time) {
	defer s.recoverAndLog("compose")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Desktop.TickAnimations(now)
	if s.Desktop.ProcessDeferredWallpaper() {
		s.log.Info("wallpaper reload applied")
	}
	damaged := s.Desktop.Comp.Compose(s.fb)
	if len(damaged) > 0 {
		s.log.Debugw("compose cycle", "damaged_rects", len(damaged))
	}
}

func (s *Scheduler) managementLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case w := <-s.work:
			s.applyOnce(w)
		}
	}
}

// applyOnce holds the mutex for exactly one input/IPC batch.
func (s *Scheduler) applyOnce(w ManagementWork) {
	defer s.recoverAndLog("management")

	s.mu.Lock()
	defer s.mu.Unlock()

	if w.Apply != nil {
		w.Apply(s.Desktop)
	}
}

// recoverAndLog converts a panic inside a critical section into a logged
// warning instead of taking down the other goroutine's mutex holder.
func (s *Scheduler) recoverAndLog(stage string) {
	if r := recover(); r != nil {
		s.log.Warnw("recovered panic in critical section", "stage", stage, "panic", r)
	}
}
