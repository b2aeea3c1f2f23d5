package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/ironcycle/internal/cycle"
	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/planner"
	"github.com/claude/ironcycle/internal/plates"
	"github.com/claude/ironcycle/internal/store"
)

// stateJSON flattens a cycle state for tool output, sessions ordered by
// week then lift.
func stateJSON(st cycle.State) map[string]any {
	sessions := make([]map[string]any, 0, len(st.Completions))
	for week := 1; week <= cycle.WeeksPerCycle; week++ {
		for _, lift := range models.Lifts() {
			c, ok := st.Completions[cycle.CompletionKey{Week: week, Lift: lift}]
			if !ok {
				continue
			}
			session := map[string]any{
				"week":        week,
				"lift":        lift.String(),
				"status":      c.Status,
				"set_weights": c.SetWeights(),
			}
			if c.AmrapReps != nil {
				session["amrap_reps"] = *c.AmrapReps
			}
			sessions = append(sessions, session)
		}
	}
	return map[string]any{
		"cycle_number":    st.CycleNumber,
		"current_week":    st.CurrentWeek,
		"completed_weeks": st.CompletedWeeks,
		"cycle_complete":  st.CycleComplete,
		"completions":     sessions,
	}
}

func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return mcp.NewToolResultError("no profile yet: call save_profile first")
	case errors.Is(err, planner.ErrCycleIncomplete):
		return mcp.NewToolResultError("cycle is not complete: resolve all 16 sessions before committing")
	case errors.Is(err, models.ErrInvalidInput):
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultError("query failed: " + err.Error())
	}
}

// --- Tool definitions ---

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the lifter's current profile: body weight, years lifting, one-rep maxes, and cycle number."),
)

var toolSaveProfile = mcp.NewTool("save_profile",
	mcp.WithDescription("Save the lifter's profile. Overwrites body weight, years lifting, and all four one-rep maxes. The cycle number is preserved."),
	mcp.WithNumber("body_weight", mcp.Required(), mcp.Description("Body weight in pounds")),
	mcp.WithNumber("years_lifting", mcp.Required(), mcp.Description("Years of lifting experience")),
	mcp.WithNumber("squat", mcp.Required(), mcp.Description("Squat one-rep max in pounds")),
	mcp.WithNumber("bench", mcp.Required(), mcp.Description("Bench press one-rep max in pounds")),
	mcp.WithNumber("overhead", mcp.Required(), mcp.Description("Overhead press one-rep max in pounds")),
	mcp.WithNumber("deadlift", mcp.Required(), mcp.Description("Deadlift one-rep max in pounds")),
	mcp.WithBoolean("is_elite_fitness", mcp.Description("Whether the lifter has reached all elite goals")),
)

var toolGetCyclePlan = mcp.NewTool("get_cycle_plan",
	mcp.WithDescription("Get the current 4-week 5/3/1 prescription: training maxes and three working-set weights per lift per week."),
)

var toolGetCycleState = mcp.NewTool("get_cycle_state",
	mcp.WithDescription("Get the current cycle's completion state: which sessions are resolved, the current week, and whether the cycle is complete."),
)

var toolToggleLift = mcp.NewTool("toggle_lift",
	mcp.WithDescription("Record or clear a session result. Recording the status already stored clears the session; anything else overwrites it. AMRAP reps are accepted on week 3 only."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Cycle week (1-4)")),
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift name"), mcp.Enum("squat", "bench", "overhead", "deadlift")),
	mcp.WithString("status", mcp.Required(), mcp.Description("Session result"), mcp.Enum("nailed", "failed")),
	mcp.WithNumber("amrap_reps", mcp.Description("Reps achieved on the final AMRAP set (week 3 only)")),
)

var toolGetReviewProposal = mcp.NewTool("get_review_proposal",
	mcp.WithDescription("Get the end-of-cycle review proposal: current maxes plus the standard increments (+5 squat/deadlift, +2.5 bench, +1.5 overhead)."),
)

var toolCommitCycle = mcp.NewTool("commit_cycle",
	mcp.WithDescription("Commit the reviewed maxes and advance to the next cycle. Fails unless all 16 sessions of the current cycle are resolved."),
	mcp.WithNumber("squat", mcp.Required(), mcp.Description("Squat one-rep max for the next cycle")),
	mcp.WithNumber("bench", mcp.Required(), mcp.Description("Bench press one-rep max for the next cycle")),
	mcp.WithNumber("overhead", mcp.Required(), mcp.Description("Overhead press one-rep max for the next cycle")),
	mcp.WithNumber("deadlift", mcp.Required(), mcp.Description("Deadlift one-rep max for the next cycle")),
)

var toolGetEliteProgress = mcp.NewTool("get_elite_progress",
	mcp.WithDescription("Get progress toward the bodyweight-multiple elite goals (2x squat, 1.5x bench, 1x overhead, 2.5x deadlift) per lift plus an overall percentage."),
)

var toolGetTimeline = mcp.NewTool("get_timeline",
	mcp.WithDescription("Project when each lift reaches its elite goal, using monthly gain rates for the lifter's experience level."),
)

var toolGetPlateBreakdown = mcp.NewTool("get_plate_breakdown",
	mcp.WithDescription("Compute the per-side plate loadout for a target barbell weight on a 45 lb bar."),
	mcp.WithNumber("target", mcp.Required(), mcp.Description("Target total weight in pounds")),
	mcp.WithNumber("min_slots", mcp.Description("Minimum glyph slots to pad the visual loadout to")),
)

// --- Tool handlers ---

func (h *handlers) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := h.ds.Profile(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(m)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) saveProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bodyWeight, err := req.RequireFloat("body_weight")
	if err != nil {
		return mcp.NewToolResultError("body_weight parameter is required"), nil
	}
	years, err := req.RequireFloat("years_lifting")
	if err != nil {
		return mcp.NewToolResultError("years_lifting parameter is required"), nil
	}

	var maxes models.MaxLifts
	for _, lift := range models.Lifts() {
		v, err := req.RequireFloat(lift.String())
		if err != nil {
			return mcp.NewToolResultError(lift.String() + " parameter is required"), nil
		}
		maxes = maxes.Set(lift, v)
	}

	m, err := h.ds.SaveProfile(ctx, UserIDFromContext(ctx), models.FitnessMetric{
		BodyWeight:   bodyWeight,
		YearsLifting: years,
		Maxes:        maxes,
		IsElite:      req.GetBool("is_elite_fitness", false),
	})
	if err != nil {
		h.log.Error("mcp save_profile", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(m)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCyclePlan(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := h.ds.CurrentPlan(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_cycle_plan", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCycleState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := h.ds.State(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_cycle_state", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(stateJSON(st))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) toggleLift(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	liftStr, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	lift, err := models.ParseLift(liftStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	statusStr, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("status parameter is required"), nil
	}
	status, err := models.ParseStatus(statusStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var amrapReps *int
	if reps := req.GetInt("amrap_reps", -1); reps >= 0 {
		amrapReps = &reps
	}

	res, err := h.ds.ToggleLift(ctx, UserIDFromContext(ctx), week, lift, status, amrapReps)
	if err != nil {
		h.log.Error("mcp toggle_lift", "error", err)
		return toolError(err), nil
	}

	out := map[string]any{
		"state":   stateJSON(res.State),
		"cleared": res.Cleared,
	}
	if res.Share != "" {
		out["share"] = res.Share
	}
	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getReviewProposal(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	proposal, err := h.ds.ProposeReview(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_review_proposal", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(proposal)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) commitCycle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maxes models.MaxLifts
	for _, lift := range models.Lifts() {
		v, err := req.RequireFloat(lift.String())
		if err != nil {
			return mcp.NewToolResultError(lift.String() + " parameter is required"), nil
		}
		maxes = maxes.Set(lift, v)
	}

	m, err := h.ds.CommitCycle(ctx, UserIDFromContext(ctx), maxes)
	if err != nil {
		h.log.Error("mcp commit_cycle", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(m)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getEliteProgress(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.ds.Progress(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_elite_progress", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTimeline(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tl, err := h.ds.Timeline(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_timeline", "error", err)
		return toolError(err), nil
	}

	result, err := mcp.NewToolResultJSON(tl)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPlateBreakdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireFloat("target")
	if err != nil {
		return mcp.NewToolResultError("target parameter is required"), nil
	}
	if target < 0 {
		return mcp.NewToolResultError("target must be non-negative"), nil
	}

	b := plates.Solve(target)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"target":    target,
		"total":     b.Total(),
		"exact":     b.Exact,
		"breakdown": b,
		"text":      plates.Text(b),
		"sections":  plates.Sections(b),
		"glyphs":    plates.Glyphs(b, req.GetInt("min_slots", 0)),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
