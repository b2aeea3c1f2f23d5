package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/store"
)

const completionColumns = `id, user_id, cycle_number, cycle_week, lift_type, status,
	set1_weight, set2_weight, set3_weight, amrap_reps, created_at, updated_at`

func scanCompletion(row pgx.Row) (models.LiftCompletion, error) {
	var c models.LiftCompletion
	var liftType, status string
	err := row.Scan(
		&c.ID, &c.UserID, &c.CycleNumber, &c.CycleWeek, &liftType, &status,
		&c.Set1Weight, &c.Set2Weight, &c.Set3Weight, &c.AmrapReps,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}
	if c.Lift, err = models.ParseLift(liftType); err != nil {
		return c, err
	}
	if c.Status, err = models.ParseStatus(status); err != nil {
		return c, err
	}
	return c, nil
}

func (db *DB) listCompletions(ctx context.Context, query string, args ...any) ([]models.LiftCompletion, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	var out []models.LiftCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListForCycle returns all completions for a user's cycle.
func (db *DB) ListForCycle(ctx context.Context, userID, cycleNumber int) ([]models.LiftCompletion, error) {
	return db.listCompletions(ctx, `
		SELECT `+completionColumns+`
		FROM lift_completions
		WHERE user_id = $1 AND cycle_number = $2
		ORDER BY cycle_week, lift_type
	`, userID, cycleNumber)
}

// ListForWeek returns the completions for one week of a cycle.
func (db *DB) ListForWeek(ctx context.Context, userID, cycleNumber, week int) ([]models.LiftCompletion, error) {
	return db.listCompletions(ctx, `
		SELECT `+completionColumns+`
		FROM lift_completions
		WHERE user_id = $1 AND cycle_number = $2 AND cycle_week = $3
		ORDER BY lift_type
	`, userID, cycleNumber, week)
}

// Upsert inserts or replaces the completion for its (user, cycle, week,
// lift) key. Writes against a cycle older than the user's latest metric
// snapshot are rejected with store.ErrStaleCycle; the planner refreshes
// and retries once.
func (db *DB) Upsert(ctx context.Context, c models.LiftCompletion) (models.LiftCompletion, error) {
	var latestCycle int
	err := db.Pool.QueryRow(ctx, `
		SELECT cycle_number FROM fitness_metrics
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, c.UserID).Scan(&latestCycle)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return models.LiftCompletion{}, fmt.Errorf("checking cycle number: %w", err)
	}
	if err == nil && c.CycleNumber < latestCycle {
		return models.LiftCompletion{}, store.ErrStaleCycle
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO lift_completions (user_id, cycle_number, cycle_week, lift_type,
			status, set1_weight, set2_weight, set3_weight, amrap_reps)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, cycle_number, cycle_week, lift_type) DO UPDATE SET
			status = EXCLUDED.status,
			set1_weight = EXCLUDED.set1_weight,
			set2_weight = EXCLUDED.set2_weight,
			set3_weight = EXCLUDED.set3_weight,
			amrap_reps = EXCLUDED.amrap_reps,
			updated_at = NOW()
		RETURNING `+completionColumns+`
	`, c.UserID, c.CycleNumber, c.CycleWeek, c.Lift.String(),
		string(c.Status), c.Set1Weight, c.Set2Weight, c.Set3Weight, c.AmrapReps)

	saved, err := scanCompletion(row)
	if err != nil {
		return models.LiftCompletion{}, fmt.Errorf("upserting completion: %w", err)
	}
	return saved, nil
}

// Remove deletes the completion for the key; a missing key is a no-op.
func (db *DB) Remove(ctx context.Context, userID, cycleNumber, week int, lift models.LiftType) error {
	_, err := db.Pool.Exec(ctx, `
		DELETE FROM lift_completions
		WHERE user_id = $1 AND cycle_number = $2 AND cycle_week = $3 AND lift_type = $4
	`, userID, cycleNumber, week, lift.String())
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}
	return nil
}
