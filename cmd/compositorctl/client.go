package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/zaynotley/uicompositor/internal/admin"
)

// callAdmin dials sockPath, sends req as a single JSON value, and decodes
// the single JSON response the admin socket writes back.
func callAdmin(sockPath string, req admin.Request) (admin.Response, error) {
	conn, err := net.DialTimeout("unix", sockPath, 2*time.Second)
	if err != nil {
		return admin.Response{}, fmt.Errorf("dial %s: %w", sockPath, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return admin.Response{}, fmt.Errorf("encode request: %w", err)
	}
	var resp admin.Response
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		return admin.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
