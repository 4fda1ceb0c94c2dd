package main

import (
	"time"

	"github.com/getlantern/systray"

	"github.com/zaynotley/uicompositor/internal/admin"
)

// pollInterval is how often the tray refreshes its tooltip from the admin
// socket's "status" command.
const pollInterval = 2 * time.Second

// trayApp drives a systray icon showing live window/layer counts, polled
// from the admin socket.
type trayApp struct {
	sockPath string

	mStatus *systray.MenuItem
	mQuit   *systray.MenuItem

	quit chan struct{}
}

func runTray(sockPath string) {
	app := &trayApp{sockPath: sockPath, quit: make(chan struct{})}
	systray.Run(app.onReady, app.onExit)
}

func (a *trayApp) onReady() {
	systray.SetTitle("compositorctl")
	systray.SetTooltip("compositord: connecting...")
	systray.SetIcon(generateSolidIcon(100, 140, 220))

	a.mStatus = systray.AddMenuItem("Refresh status", "Query the admin socket now")
	systray.AddSeparator()
	a.mQuit = systray.AddMenuItem("Quit", "Exit compositorctl")

	go a.pollLoop()
	go a.handleClicks()
}

func (a *trayApp) onExit() {
	close(a.quit)
}

func (a *trayApp) handleClicks() {
	for {
		select {
		case <-a.quit:
			return
		case <-a.mStatus.ClickedCh:
			a.refresh()
		case <-a.mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (a *trayApp) pollLoop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.quit:
			return
		case <-ticker.C:
			a.refresh()
		}
	}
}

func (a *trayApp) refresh() {
	resp, err := callAdmin(a.sockPath, admin.Request{Cmd: "status"})
	if err != nil {
		systray.SetTooltip("compositord: " + err.Error())
		return
	}
	if resp.Status != "ok" {
		systray.SetTooltip("compositord: " + resp.Message)
		return
	}
	systray.SetTooltip("compositord: " + resp.Result)
}

// generateSolidIcon builds a minimal 16x16 ICO with a solid fill color,
// since the tray needs some icon bytes and this tool ships no asset files.
func generateSolidIcon(r, g, b byte) []byte {
	const dim = 16
	xorSize := dim * dim * 4
	andSize := ((dim + 31) / 32) * 4 * dim
	dataSize := 40 + xorSize + andSize

	buf := make([]byte, 6+16+dataSize)
	buf[2] = 1 // ICONDIR type = icon
	buf[4] = 1 // one image
	buf[6] = dim
	buf[7] = dim
	buf[10] = 1  // color planes
	buf[12] = 32 // bits per pixel
	putLE32(buf[14:18], uint32(dataSize))
	buf[18] = 22 // offset to image data

	header := buf[22:]
	putLE32(header[0:4], 40)
	putLE32(header[4:8], dim)
	putLE32(header[8:12], dim*2)
	putLE16(header[12:14], 1)
	putLE16(header[14:16], 32)
	putLE32(header[20:24], uint32(xorSize+andSize))

	pixels := buf[22+40:]
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			idx := (y*dim + x) * 4
			pixels[idx+0] = b
			pixels[idx+1] = g
			pixels[idx+2] = r
			pixels[idx+3] = 255
		}
	}
	return buf
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
