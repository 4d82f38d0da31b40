// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Endoscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Endoscope Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
		mgr:     mgr,
	}

	// --- 1. Tool: get_activity_overview ---
	s.AddTool(mcp.NewTool("get_activity_overview",
		mcp.WithDescription("Compute engagement KPIs (DAU, WAU, MAU, stickiness, session averages) over a day range."),
		mcp.WithString("from", mcp.Description("Start day key (YYYY-MM-DD) or a relative phrase like '7 days ago'.")),
		mcp.WithString("to", mcp.Description("End day key (YYYY-MM-DD) or a relative phrase.")),
	), h.handleGetActivityOverview)

	// --- 2. Tool: get_retention_curve ---
	s.AddTool(mcp.NewTool("get_retention_curve",
		mcp.WithDescription("Compute the signup-relative retention curve for users created within the day range."),
		mcp.WithString("from", mcp.Description("Start day key (YYYY-MM-DD) or a relative phrase.")),
		mcp.WithString("to", mcp.Description("End day key (YYYY-MM-DD) or a relative phrase.")),
	), h.handleGetRetentionCurve)

	// --- 3. Tool: compare_cohorts ---
	s.AddTool(mcp.NewTool("compare_cohorts",
		mcp.WithDescription("Compare retention across signup cohorts, either auto-generated from the range or manually specified."),
		mcp.WithString("from", mcp.Description("Start day key (YYYY-MM-DD) or a relative phrase.")),
		mcp.WithString("to", mcp.Description("End day key (YYYY-MM-DD) or a relative phrase.")),
		mcp.WithNumber("cohorts", mcp.Description("Number of auto-generated cohorts (ignored when manual windows are given).")),
		mcp.WithString("windows", mcp.Description("Comma-separated manual cohort windows, each 'start:end' in day keys.")),
	), h.handleCompareCohorts)

	// --- 4. Tool: get_top_events ---
	s.AddTool(mcp.NewTool("get_top_events",
		mcp.WithDescription("Rank the most frequent events over the day range, with an hour-of-day histogram."),
		mcp.WithString("from", mcp.Description("Start day key (YYYY-MM-DD) or a relative phrase.")),
		mcp.WithString("to", mcp.Description("End day key (YYYY-MM-DD) or a relative phrase.")),
		mcp.WithString("kind", mcp.Description("Event collection to rank (app or bubble). Defaults to 'app'."), mcp.Enum("app", "bubble")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked events returned.")),
	), h.handleGetTopEvents)

	return s
}

// StartMCPServer starts the Endoscope MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, src, mgr)
	return server.ServeStdio(s)
}
