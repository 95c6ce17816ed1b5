package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/minutesmind/internal/version"
)

var (
	flagConfig string
	flagEnv    string
)

var rootCmd = &cobra.Command{
	Use:           "minutesmind",
	Short:         "Meeting-notes ingestion, semantic search and action extraction",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "", "environment: local, dev, docker, prod (default $ENV or local)")
}
