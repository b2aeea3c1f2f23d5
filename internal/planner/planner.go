// Package planner orchestrates the training engine over the store
// contracts: it derives prescriptions and cycle state, applies completion
// toggles, and commits end-of-cycle reviews. It holds no state of its own;
// every read goes back to the stores.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/ironcycle/internal/cycle"
	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/progress"
	"github.com/claude/ironcycle/internal/store"
)

// ErrCycleIncomplete is returned by CommitCycle before all 16 sessions of
// the current cycle are resolved.
var ErrCycleIncomplete = errors.New("cycle is not complete")

// ErrNoProfile is returned when an operation needs a profile snapshot and
// the user has none.
var ErrNoProfile = store.ErrNotFound

// Planner wires the pure engine to a metrics and a completion store.
type Planner struct {
	metrics     store.MetricsStore
	completions store.CompletionStore
	log         *slog.Logger
	now         func() time.Time
}

// New creates a Planner over the given stores.
func New(metrics store.MetricsStore, completions store.CompletionStore, log *slog.Logger) *Planner {
	return &Planner{
		metrics:     metrics,
		completions: completions,
		log:         log,
		now:         time.Now,
	}
}

// Profile returns the latest metric snapshot for the user.
func (p *Planner) Profile(ctx context.Context, userID int) (models.FitnessMetric, error) {
	return p.metrics.Latest(ctx, userID)
}

// SaveProfile persists a new snapshot unless it is semantically equal to
// the latest one. The cycle number is carried over from the latest
// snapshot (1 for a brand-new profile); profile edits never advance it.
func (p *Planner) SaveProfile(ctx context.Context, userID int, m models.FitnessMetric) (models.FitnessMetric, error) {
	m.UserID = userID

	latest, err := p.metrics.Latest(ctx, userID)
	switch {
	case err == nil:
		m.CycleNumber = latest.CycleNumber
		if latest.Equal(m) {
			return latest, nil
		}
	case errors.Is(err, store.ErrNotFound):
		m.CycleNumber = 1
	default:
		return models.FitnessMetric{}, fmt.Errorf("loading latest metric: %w", err)
	}

	saved, err := p.metrics.Save(ctx, m)
	if err != nil {
		return models.FitnessMetric{}, fmt.Errorf("saving metric: %w", err)
	}
	p.log.Info("profile saved", "user", userID, "cycle", saved.CycleNumber)
	return saved, nil
}

// CurrentPlan generates the cycle prescription from the latest maxes.
func (p *Planner) CurrentPlan(ctx context.Context, userID int) (cycle.Prescription, error) {
	m, err := p.metrics.Latest(ctx, userID)
	if err != nil {
		return cycle.Prescription{}, err
	}
	return cycle.Generate(m.Maxes), nil
}

// State re-derives the current cycle's completion state from the stores.
func (p *Planner) State(ctx context.Context, userID int) (cycle.State, error) {
	m, err := p.metrics.Latest(ctx, userID)
	if err != nil {
		return cycle.State{}, err
	}
	return p.stateForCycle(ctx, userID, m.CycleNumber)
}

func (p *Planner) stateForCycle(ctx context.Context, userID, cycleNumber int) (cycle.State, error) {
	completions, err := p.completions.ListForCycle(ctx, userID, cycleNumber)
	if err != nil {
		return cycle.State{}, fmt.Errorf("listing completions: %w", err)
	}
	return cycle.Derive(cycleNumber, completions), nil
}

// ToggleResult is the outcome of a toggle: the re-derived state and, when
// a status was recorded (not cleared), a share line for the clipboard.
type ToggleResult struct {
	State   cycle.State `json:"state"`
	Cleared bool        `json:"cleared"`
	Share   string      `json:"share,omitempty"`
}

// ToggleLift resolves or clears a (week, lift) session in the current
// cycle. Toggling the status already recorded clears it; anything else
// upserts a completion snapshotting the prescribed set weights. AMRAP reps
// are stored for week 3 only. The returned state is re-read from the store
// after the mutation, and a stale-cycle rejection is retried once after
// refreshing the cycle number from the metrics store.
func (p *Planner) ToggleLift(ctx context.Context, userID, week int, lift models.LiftType, status models.LiftStatus, amrapReps *int) (ToggleResult, error) {
	if week < 1 || week > cycle.WeeksPerCycle {
		return ToggleResult{}, fmt.Errorf("%w: week %d out of range", models.ErrInvalidInput, week)
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return ToggleResult{}, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}

	m, err := p.metrics.Latest(ctx, userID)
	if err != nil {
		return ToggleResult{}, err
	}

	state, err := p.stateForCycle(ctx, userID, m.CycleNumber)
	if err != nil {
		return ToggleResult{}, err
	}

	if current, ok := state.StatusFor(week, lift); ok && current == status {
		if err := p.completions.Remove(ctx, userID, m.CycleNumber, week, lift); err != nil {
			return ToggleResult{}, fmt.Errorf("clearing completion: %w", err)
		}
		state, err = p.stateForCycle(ctx, userID, m.CycleNumber)
		if err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{State: state, Cleared: true}, nil
	}

	plan := cycle.Generate(m.Maxes)
	weights := plan.SetWeights(week, lift)
	c := models.LiftCompletion{
		UserID:      userID,
		CycleNumber: m.CycleNumber,
		CycleWeek:   week,
		Lift:        lift,
		Status:      status,
		Set1Weight:  weights[0],
		Set2Weight:  weights[1],
		Set3Weight:  weights[2],
	}
	if cycle.AmrapWeek(week) {
		c.AmrapReps = amrapReps
	}

	if _, err := p.completions.Upsert(ctx, c); err != nil {
		if !errors.Is(err, store.ErrStaleCycle) {
			return ToggleResult{}, fmt.Errorf("saving completion: %w", err)
		}
		// Another session committed a new cycle under us. Refresh the
		// cycle number from the metrics store and retry once.
		p.log.Warn("stale cycle on upsert, retrying", "user", userID, "cycle", c.CycleNumber)
		m, err = p.metrics.Latest(ctx, userID)
		if err != nil {
			return ToggleResult{}, err
		}
		c.CycleNumber = m.CycleNumber
		if _, err := p.completions.Upsert(ctx, c); err != nil {
			return ToggleResult{}, fmt.Errorf("saving completion after refresh: %w", err)
		}
	}

	state, err = p.stateForCycle(ctx, userID, c.CycleNumber)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{
		State: state,
		Share: cycle.ShareText(lift, status, weights[2]),
	}, nil
}

// ReviewProposal pairs the current maxes with the default-incremented
// proposal shown at the end of a cycle.
type ReviewProposal struct {
	CycleNumber   int             `json:"cycle_number"`
	CurrentMaxes  models.MaxLifts `json:"current_maxes"`
	ProposedMaxes models.MaxLifts `json:"proposed_maxes"`
}

// ProposeReview builds the end-of-cycle proposal from the latest maxes.
func (p *Planner) ProposeReview(ctx context.Context, userID int) (ReviewProposal, error) {
	m, err := p.metrics.Latest(ctx, userID)
	if err != nil {
		return ReviewProposal{}, err
	}
	return ReviewProposal{
		CycleNumber:   m.CycleNumber,
		CurrentMaxes:  m.Maxes,
		ProposedMaxes: cycle.ProposeNextMaxes(m.Maxes),
	}, nil
}

// CommitCycle closes the current cycle: it requires all 16 sessions to be
// resolved, rounds the edited maxes to the half pound, and persists a new
// snapshot with the cycle number advanced by one. Prior completions are
// retained under the old cycle number.
func (p *Planner) CommitCycle(ctx context.Context, userID int, newMaxes models.MaxLifts) (models.FitnessMetric, error) {
	m, err := p.metrics.Latest(ctx, userID)
	if err != nil {
		return models.FitnessMetric{}, err
	}

	state, err := p.stateForCycle(ctx, userID, m.CycleNumber)
	if err != nil {
		return models.FitnessMetric{}, err
	}
	if !state.CycleComplete {
		return models.FitnessMetric{}, ErrCycleIncomplete
	}

	next := m
	next.Maxes = cycle.NormalizeCommit(newMaxes)
	next.CycleNumber = m.CycleNumber + 1

	saved, err := p.metrics.Save(ctx, next)
	if err != nil {
		return models.FitnessMetric{}, fmt.Errorf("saving cycle commit: %w", err)
	}
	p.log.Info("cycle committed", "user", userID, "cycle", saved.CycleNumber)
	return saved, nil
}

// Progress computes elite progress from the latest snapshot.
func (p *Planner) Progress(ctx context.Context, userID int) (progress.Report, error) {
	m, err := p.metrics.Latest(ctx, userID)
	if err != nil {
		return progress.Report{}, err
	}
	return progress.EliteProgress(m.BodyWeight, m.Maxes)
}

// Timeline projects months-to-elite from the latest snapshot.
func (p *Planner) Timeline(ctx context.Context, userID int) (progress.Timeline, error) {
	m, err := p.metrics.Latest(ctx, userID)
	if err != nil {
		return progress.Timeline{}, err
	}
	return progress.Project(m.BodyWeight, m.Maxes, m.YearsLifting, p.now())
}
