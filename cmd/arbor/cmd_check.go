package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhamidi/arbor/config"
	"github.com/dhamidi/arbor/workspace"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Parse every R file under a directory and report diagnostics",
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

			docs := ws.Documents()
			sort.Slice(docs, func(i, j int) bool {
				return docs[i].Path() < docs[j].Path()
			})

			problems := 0
			for _, doc := range docs {
				root := doc.Ready()
				snap := doc.Buffer().Snapshot()
				for _, d := range root.Diagnostics {
					line, col := snap.PositionAt(d.Range.Start)
					fmt.Printf("%s:%d:%d: %s\n", doc.Path(), line+1, col+1, d.Message)
					problems++
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s)", problems)
			}
			return nil
		},
	}
}
