// Package main is the entry point for the mailcraft API server.
package main

import (
	"fmt"
	"os"

	"mailcraft-backend/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// .env must be loaded before flags pick up their environment defaults
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
