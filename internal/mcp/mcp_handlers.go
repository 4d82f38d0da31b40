package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/endora-app/endoscope/core"
	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.RecordSource
	mgr     contract.CacheManager
}

// applyRangeOverrides resolves optional from/to arguments onto a cloned config.
func (h *toolHandler) applyRangeOverrides(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if from := request.GetString("from", ""); from != "" {
		key, err := contract.ResolveDayInput(from, cfg.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid 'from' value: %w", err)
		}
		cfg.RangeStart = key
	}
	if to := request.GetString("to", ""); to != "" {
		key, err := contract.ResolveDayInput(to, cfg.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid 'to' value: %w", err)
		}
		cfg.RangeEnd = key
	}
	if cfg.RangeStart > cfg.RangeEnd {
		return nil, fmt.Errorf("start day (%s) cannot be after end day (%s)", cfg.RangeStart, cfg.RangeEnd)
	}
	return cfg, nil
}

func (h *toolHandler) handleGetActivityOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRangeOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid overview parameters: %v", err)), nil
	}

	result, err := core.GetOverviewResult(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("overview query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRetentionCurve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRangeOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid retention parameters: %v", err)), nil
	}

	result, err := core.GetRetentionResult(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retention query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareCohorts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRangeOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cohort parameters: %v", err)), nil
	}
	if c := request.GetInt("cohorts", 0); c > 0 {
		if c > contract.MaxCohortCount {
			return mcp.NewToolResultError(fmt.Sprintf("cohorts must be between 1 and %d (received %d)", contract.MaxCohortCount, c)), nil
		}
		cfg.CohortCount = c
	}
	if w := request.GetString("windows", ""); w != "" {
		cfg.CohortSpecs = nil
		for _, spec := range strings.Split(w, ",") {
			spec = strings.TrimSpace(spec)
			if spec == "" {
				continue
			}
			cfg.CohortSpecs = append(cfg.CohortSpecs, spec)
		}
	}

	result, err := core.GetCohortComparison(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cohort comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTopEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.applyRangeOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid events parameters: %v", err)), nil
	}
	if k := request.GetString("kind", ""); k != "" {
		kind := schema.EventKind(strings.ToLower(k))
		if _, ok := schema.ValidEventKinds[kind]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid event kind '%s'. must be app or bubble", k)), nil
		}
		cfg.EventKind = kind
	}
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxTopLimit {
			return mcp.NewToolResultError(fmt.Sprintf("limit cannot exceed %d (received %d)", contract.MaxTopLimit, l)), nil
		}
		cfg.TopLimit = l
	}

	result, err := core.GetEventsResult(core.WithSuppressHeader(ctx), cfg, h.src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("events query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
