package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/arbor/format"
	"github.com/dhamidi/arbor/rlang"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an R file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			root := rlang.Parse(string(data))

			switch outputFormat {
			case "json":
				if err := format.NewJSONEncoder(os.Stdout).Encode(root); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				fmt.Println()
			case "line":
				if err := format.NewLineEncoder(os.Stdout).Encode(root); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			case "text":
				fmt.Println(root.StringWithPositions())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, line, text)")

	return cmd
}
