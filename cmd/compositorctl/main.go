// Command compositorctl is the operator-facing companion to compositord: a
// CLI for the admin socket's "status"/"eval" commands, plus a system-tray
// helper that polls status in the background.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zaynotley/uicompositor/internal/admin"
)

func main() {
	cfg := loadCtlConfig()
	var sockPath string

	root := &cobra.Command{
		Use:   "compositorctl",
		Short: "Query and control a running compositord",
	}
	root.PersistentFlags().StringVar(&sockPath, "socket", cfg.AdminSocket, "admin socket path")

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print window/layer counts and theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := callAdmin(sockPath, admin.Request{Cmd: "status"})
			if err != nil {
				return err
			}
			if resp.Status != "ok" {
				return fmt.Errorf("%s", resp.Message)
			}
			fmt.Println(resp.Result)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "eval [lua]",
		Short: "Run a line of Lua against the debug console",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := callAdmin(sockPath, admin.Request{Cmd: "eval", Line: args[0]})
			if err != nil {
				return err
			}
			if resp.Status != "ok" {
				return fmt.Errorf("%s", resp.Message)
			}
			fmt.Println(resp.Result)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "tray",
		Short: "Run a system-tray icon that polls compositord's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			runTray(sockPath)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "compositorctl:", err)
		os.Exit(1)
	}
}
