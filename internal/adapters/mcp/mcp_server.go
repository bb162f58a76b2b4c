// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server     *server.MCPServer
	controller ports.Controller
	history    ports.FocusHistory
	now        func() time.Time
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a new MCP server that drives controller.
func NewServer(controller ports.Controller, history ports.FocusHistory, version string) *Server {
	s := &Server{
		controller: controller,
		history:    history,
		now:        time.Now,
	}

	s.server = server.NewMCPServer(
		"breakr",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_status",
			mcp.WithDescription("Get the current breakr timer state: phase, remaining time and focus goal"),
		),
		s.handleGetTimerStatus,
	)

	toggleTool := mcp.NewTool(
		"toggle_timer",
		mcp.WithDescription("Start a work session when idle, otherwise pause or resume the running phase"),
		mcp.WithString(
			"goal",
			mcp.Description("Focus goal for a new work session"),
		),
		mcp.WithString(
			"note",
			mcp.Description("Optional note stored with the focus record"),
		),
	)
	s.server.AddTool(toggleTool, s.handleToggleTimer)

	s.server.AddTool(
		mcp.NewTool(
			"end_break",
			mcp.WithDescription("End the current break and record the finished work session"),
		),
		s.handleEndBreak,
	)

	s.server.AddTool(
		mcp.NewTool(
			"reset_timer",
			mcp.WithDescription("Discard the current session and return the timer to idle"),
		),
		s.handleResetTimer,
	)

	recordsTool := mcp.NewTool(
		"get_focus_records",
		mcp.WithDescription("List the focus records of a day"),
		mcp.WithString(
			"date",
			mcp.Description("Day in YYYY-MM-DD format (default: today)"),
		),
		mcp.WithString(
			"filter",
			mcp.Description("Optional fuzzy match on the focus goal"),
		),
	)
	s.server.AddTool(recordsTool, s.handleGetFocusRecords)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetTimerStatus handles the get_timer_status tool.
func (s *Server) handleGetTimerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(statusJSON(s.controller.Snapshot()))
}

// handleToggleTimer handles the toggle_timer tool.
func (s *Server) handleToggleTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, domain.Toggle{
		Goal: request.GetString("goal", ""),
		Note: request.GetString("note", ""),
	})
}

// handleEndBreak handles the end_break tool.
func (s *Server) handleEndBreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, domain.EndBreak{})
}

// handleResetTimer handles the reset_timer tool.
func (s *Server) handleResetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, domain.Reset{})
}

// handleGetFocusRecords handles the get_focus_records tool.
func (s *Server) handleGetFocusRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := request.GetString("date", "")
	if date == "" {
		date = domain.DateKey(s.now())
	}

	records, err := s.history.RecordsForDay(ctx, date, request.GetString("filter", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get focus records: %v", err)), nil
	}

	total := 0
	items := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		total += rec.DurationMinutes
		items = append(items, map[string]interface{}{
			"focus_goal":       rec.FocusGoal,
			"start_time":       rec.StartTime.String(),
			"end_time":         rec.EndTime.String(),
			"duration_minutes": rec.DurationMinutes,
			"notes":            rec.Notes,
		})
	}

	return jsonResult(map[string]interface{}{
		"date":          date,
		"records":       items,
		"total_minutes": total,
	})
}

// dispatch applies ev and reports the new state, or the rejection as a tool error.
func (s *Server) dispatch(ctx context.Context, ev domain.Event) (*mcp.CallToolResult, error) {
	snap, err := s.controller.Dispatch(ctx, ev)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", domain.EventName(ev), err)), nil
	}
	return jsonResult(statusJSON(snap))
}

func statusJSON(snap domain.Snapshot) map[string]interface{} {
	result := map[string]interface{}{
		"phase":             string(snap.Phase),
		"status":            snap.StatusLabel(),
		"running":           snap.Running,
		"remaining":         domain.FormatClock(snap.Remaining),
		"remaining_seconds": snap.Remaining,
		"total_seconds":     snap.Total,
		"progress":          snap.Progress,
		"goal":              snap.Goal,
		"started_at":        nil,
		"work_minutes":      snap.Settings.WorkMinutes,
		"break_minutes":     snap.Settings.BreakMinutes,
	}
	if snap.Phase == domain.PhasePaused {
		result["paused_from"] = string(snap.PausedFrom)
	}
	if snap.StartedAt != nil {
		result["started_at"] = domain.NewTimestamp(*snap.StartedAt).String()
	}
	return result
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
