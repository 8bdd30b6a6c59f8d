package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/arbor/config"
	"github.com/dhamidi/arbor/workspace"
)

func newLSPCmd() *cobra.Command {
	var configPath string
	var verbosity int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			var err error
			if configPath != "" {
				cfg, err = config.Load(configPath)
			} else {
				cfg, err = config.LoadDir(".")
			}
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbosity = verbosity
			}
			commonlog.Configure(cfg.Verbosity, nil)

			server := workspace.NewLSPServer(version, cfg.TreeOptions()...)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a config file (default: ./arbor.yaml)")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeatable)")

	return cmd
}
