package mcp

import (
	"context"

	"github.com/claude/ironcycle/internal/cycle"
	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/planner"
	"github.com/claude/ironcycle/internal/progress"
)

// DataSource abstracts the training engine for MCP tools. Both
// *planner.Planner (local store) and HTTPClient (remote via REST API)
// satisfy this interface.
type DataSource interface {
	Profile(ctx context.Context, userID int) (models.FitnessMetric, error)
	SaveProfile(ctx context.Context, userID int, m models.FitnessMetric) (models.FitnessMetric, error)
	CurrentPlan(ctx context.Context, userID int) (cycle.Prescription, error)
	State(ctx context.Context, userID int) (cycle.State, error)
	ToggleLift(ctx context.Context, userID, week int, lift models.LiftType, status models.LiftStatus, amrapReps *int) (planner.ToggleResult, error)
	ProposeReview(ctx context.Context, userID int) (planner.ReviewProposal, error)
	CommitCycle(ctx context.Context, userID int, newMaxes models.MaxLifts) (models.FitnessMetric, error)
	Progress(ctx context.Context, userID int) (progress.Report, error)
	Timeline(ctx context.Context, userID int) (progress.Timeline, error)
}

// Compile-time check: *planner.Planner satisfies DataSource.
var _ DataSource = (*planner.Planner)(nil)
