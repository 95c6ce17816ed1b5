package main

import (
	"github.com/spf13/cobra"

	mcpTransport "github.com/kailas-cloud/minutesmind/internal/transport/mcp"
	"github.com/kailas-cloud/minutesmind/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP stdio server exposing search_notes and extract_actions",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	env, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), env, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	extractSvc, err := a.extractService()
	if err != nil {
		return err
	}

	handlers := mcpTransport.NewHandlers(a.searchService(), extractSvc, a.logger)
	return mcpTransport.ServeStdio(mcpTransport.NewServer(handlers, version.Version))
}
