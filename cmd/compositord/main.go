// Command compositord is the window-compositor daemon: it owns the host
// display window, composes client windows and chrome onto it at a fixed
// cadence, and serves the client wire protocol and the operator admin
// socket. It takes no CLI arguments; all configuration comes from
// internal/config (TOML file plus COMPOSITORD_ env overrides).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zaynotley/uicompositor/internal/admin"
	"github.com/zaynotley/uicompositor/internal/compositor"
	"github.com/zaynotley/uicompositor/internal/config"
	"github.com/zaynotley/uicompositor/internal/debugconsole"
	"github.com/zaynotley/uicompositor/internal/desktop"
	"github.com/zaynotley/uicompositor/internal/gpu2d"
	"github.com/zaynotley/uicompositor/internal/hostdisplay"
	"github.com/zaynotley/uicompositor/internal/ipc"
	"github.com/zaynotley/uicompositor/internal/logging"
	"github.com/zaynotley/uicompositor/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "compositord:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Console:    true,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	var stream gpu2d.Stream
	if cfg.GPUEnabled {
		stream = gpu2d.NewStream()
	}
	comp := compositor.New(cfg.ScreenWidth, cfg.ScreenHeight, stream)
	d := desktop.New(comp, cfg.ScreenWidth, cfg.ScreenHeight, log)

	sched := scheduler.New(d, nil, cfg.RenderInterval(), log)

	disp := ipc.New(d.Shm, log)
	ipcSrv, err := ipc.NewServer(cfg.IPCSocketPath, sched, disp, log)
	if err != nil {
		return fmt.Errorf("bind ipc socket: %w", err)
	}

	bridge := newInputBridge(sched)
	host := hostdisplay.New(cfg.ScreenWidth, cfg.ScreenHeight, bridge)
	sched.SetFramebuffer(host)

	var adminSrv *admin.Server
	if cfg.AdminSocketPath != "" {
		console := debugconsole.New(d)
		adminSrv, err = admin.New(cfg.AdminSocketPath, d, console, log)
		if err != nil {
			return fmt.Errorf("bind admin socket: %w", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })

	ipcSrv.Start()
	defer ipcSrv.Stop()
	if adminSrv != nil {
		adminSrv.Start()
		defer adminSrv.Stop()
	}

	log.Infow("compositord starting",
		"screen_width", cfg.ScreenWidth, "screen_height", cfg.ScreenHeight,
		"render_hz", cfg.RenderHz, "ipc_socket", cfg.IPCSocketPath)

	if err := host.Run("compositord"); err != nil {
		log.Warnw("host window exited", "err", err)
	}

	cancel()
	return g.Wait()
}
