package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronCycle", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronCycle 5/3/1 training server. Inspect the current cycle plan, record session results, review and commit cycles, and check elite strength progress. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolSaveProfile, Handler: h.saveProfile},
		server.ServerTool{Tool: toolGetCyclePlan, Handler: h.getCyclePlan},
		server.ServerTool{Tool: toolGetCycleState, Handler: h.getCycleState},
		server.ServerTool{Tool: toolToggleLift, Handler: h.toggleLift},
		server.ServerTool{Tool: toolGetReviewProposal, Handler: h.getReviewProposal},
		server.ServerTool{Tool: toolCommitCycle, Handler: h.commitCycle},
		server.ServerTool{Tool: toolGetEliteProgress, Handler: h.getEliteProgress},
		server.ServerTool{Tool: toolGetTimeline, Handler: h.getTimeline},
		server.ServerTool{Tool: toolGetPlateBreakdown, Handler: h.getPlateBreakdown},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentCycle, Handler: h.currentCycle},
		server.ServerResource{Resource: resEliteProgress, Handler: h.eliteProgress},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrentCycle = mcp.NewResource(
	"ironcycle://current_cycle",
	"Current Cycle",
	mcp.WithResourceDescription("The active 4-week prescription with training maxes, working sets, and per-session completion state"),
	mcp.WithMIMEType("application/json"),
)

var resEliteProgress = mcp.NewResource(
	"ironcycle://elite_progress",
	"Elite Progress",
	mcp.WithResourceDescription("Progress toward bodyweight-multiple elite goals per lift, with the projected timeline to reach them"),
	mcp.WithMIMEType("application/json"),
)
