package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/arbor/config"
	"github.com/dhamidi/arbor/workspace"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Keep parsing R files under a directory as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			cfg, err := config.LoadDir(dir)
			if err != nil {
				return err
			}

			ws := workspace.New(dir, cfg.TreeOptions()...)
			defer ws.Close()
			if err := ws.ScanAll(); err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			watcher, err := workspace.NewWatcher(ws)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			watcher.Start()
			defer watcher.Stop()

			fmt.Printf("watching %s (%d files)\n", dir, len(ws.Documents()))

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
}
