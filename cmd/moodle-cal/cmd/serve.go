package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfenderov/moodle-cal/internal/mcp"
	"github.com/mfenderov/moodle-cal/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server for calendar retrieval.

The server communicates via stdio and provides one tool:
  - list_calendar_events: Sign in and list this month's events

Each call opens a fresh portal session, so credentials changed in the
config take effect on restart only.

Example:
  moodle-cal serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	server := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
		Open: func(ctx context.Context, driver string) (pipeline.Portal, pipeline.Config, error) {
			return openPortal(ctx, cfg, driver)
		},
	})

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")

	return server.ServeStdio()
}
