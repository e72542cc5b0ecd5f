package main

import (
	"mailcraft-backend/config"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the server CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mailcraft",
		Short:        "Mailcraft - AI-assisted email drafting API",
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Settings come from environment variables
(optionally via .env), an optional YAML file (--config) and flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}
