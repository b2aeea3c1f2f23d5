package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) currentCycle(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	plan, err := h.ds.CurrentPlan(ctx, uid)
	if err != nil {
		return nil, err
	}

	st, err := h.ds.State(ctx, uid)
	if err != nil {
		h.log.Warn("current_cycle: state failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"plan":  plan,
		"state": stateJSON(st),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) eliteProgress(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	report, err := h.ds.Progress(ctx, uid)
	if err != nil {
		return nil, err
	}

	tl, err := h.ds.Timeline(ctx, uid)
	if err != nil {
		h.log.Warn("elite_progress: timeline failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"progress": report,
		"timeline": tl,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
