// Package store defines the persistence contracts the training engine
// consumes. Any backing store that honors them satisfies the core: the
// Postgres implementation in internal/storage, the SQLite one in
// internal/storage/local, or the in-memory one here.
package store

import (
	"context"
	"errors"

	"github.com/claude/ironcycle/internal/models"
)

// ErrNotFound is returned when a user has no metric snapshot yet.
var ErrNotFound = errors.New("not found")

// ErrStaleCycle is returned by Upsert when the completion's cycle number
// is below the latest known for the user. The caller refreshes from the
// metrics store and retries at most once.
var ErrStaleCycle = errors.New("stale cycle number")

// MetricsStore persists FitnessMetric snapshots. The latest snapshot by
// creation time is the sole authority for the current cycle number.
type MetricsStore interface {
	// Latest returns the most recent snapshot for the user, or ErrNotFound.
	Latest(ctx context.Context, userID int) (models.FitnessMetric, error)

	// Save persists a new snapshot, assigning its ID and timestamp. Many
	// snapshots may share a cycle number; the caller compares against the
	// latest first and skips semantically equal writes.
	Save(ctx context.Context, m models.FitnessMetric) (models.FitnessMetric, error)
}

// CompletionStore persists lift completions, unique per
// (user, cycle, week, lift).
type CompletionStore interface {
	ListForCycle(ctx context.Context, userID, cycleNumber int) ([]models.LiftCompletion, error)
	ListForWeek(ctx context.Context, userID, cycleNumber, week int) ([]models.LiftCompletion, error)

	// Upsert inserts or replaces the completion for its key. Returns
	// ErrStaleCycle when the cycle number predates the user's latest
	// metric snapshot.
	Upsert(ctx context.Context, c models.LiftCompletion) (models.LiftCompletion, error)

	// Remove deletes the completion for the key; removing a missing key
	// is not an error.
	Remove(ctx context.Context, userID, cycleNumber, week int, lift models.LiftType) error
}
