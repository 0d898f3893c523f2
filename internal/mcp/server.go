package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mfenderov/moodle-cal/internal/pipeline"
	"github.com/mfenderov/moodle-cal/pkg/models"
)

// Opener starts a fresh portal session for the named driver. An empty
// driver selects the configured default. The returned pipeline config
// carries the pacing for that driver.
type Opener func(ctx context.Context, driver string) (pipeline.Portal, pipeline.Config, error)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Open    Opener
}

// Server exposes calendar extraction as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	open      Opener
}

// listResult is the payload returned by list_calendar_events.
type listResult struct {
	RunID  string                 `json:"run_id"`
	Count  int                    `json:"count"`
	Events []models.EnrichedEvent `json:"events"`
}

// NewServer creates a new MCP server with the calendar tool registered.
func NewServer(config Config) *Server {
	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		open:      config.Open,
	}

	listTool := mcp.NewTool("list_calendar_events",
		mcp.WithDescription("Sign in to the Moodle portal and list this month's calendar events with due date, course, description and submission link. Fields that could not be read are \"N/A\"."),
		mcp.WithString("driver",
			mcp.Description("Extraction driver: \"http\" (fast, default) or \"browser\" (headless Chromium)"),
			mcp.Enum("http", "browser"),
		),
	)
	mcpServer.AddTool(listTool, s.listEventsHandler)

	return s
}

// listEventsHandler handles the list_calendar_events tool call.
func (s *Server) listEventsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	driver := req.GetString("driver", "")

	result, err := s.handleListEvents(ctx, driver)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal events: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}

// handleListEvents runs one extraction pass on a new session.
func (s *Server) handleListEvents(ctx context.Context, driver string) (*listResult, error) {
	if s.open == nil {
		return nil, errors.New("no portal configured")
	}

	portal, config, err := s.open(ctx, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open portal session: %w", err)
	}

	res, err := pipeline.New(portal, config).Run(ctx)
	if errors.Is(err, pipeline.ErrLoginFailed) {
		return nil, errors.New("login failed: check the portal credentials")
	}
	if err != nil {
		return nil, err
	}

	return &listResult{
		RunID:  res.RunID,
		Count:  len(res.Events),
		Events: res.Events,
	}, nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
