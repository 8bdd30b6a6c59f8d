package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/arbor/workspace"
)

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the assignment targets of an R file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			ws := workspace.New(filepath.Dir(path))
			defer ws.Close()
			doc := ws.Open(path, string(data))
			doc.Ready()

			for _, sym := range ws.DocumentSymbols(path) {
				kind := "variable"
				if sym.Function {
					kind = "function"
				}
				fmt.Printf("%s\t%s\t%d\t%d\n", kind, sym.Name, sym.Range.Start, sym.Range.End())
			}
			return nil
		},
	}
}
