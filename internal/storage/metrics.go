package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/store"
)

// Latest returns the most recent metric snapshot for the user by creation
// time, or store.ErrNotFound.
func (db *DB) Latest(ctx context.Context, userID int) (models.FitnessMetric, error) {
	var m models.FitnessMetric
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, body_weight, years_lifting,
		       squat_weight, bench_weight, overhead_press_weight, deadlift_weight,
		       is_elite_fitness, cycle_number
		FROM fitness_metrics
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).Scan(
		&m.ID, &m.UserID, &m.CreatedAt, &m.BodyWeight, &m.YearsLifting,
		&m.Maxes.Squat, &m.Maxes.Bench, &m.Maxes.Overhead, &m.Maxes.Deadlift,
		&m.IsElite, &m.CycleNumber,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.FitnessMetric{}, store.ErrNotFound
	}
	if err != nil {
		return models.FitnessMetric{}, fmt.Errorf("querying latest metric: %w", err)
	}
	return m, nil
}

// Save inserts a new metric snapshot, letting the database assign id and
// timestamp. Many snapshots may share a cycle number.
func (db *DB) Save(ctx context.Context, m models.FitnessMetric) (models.FitnessMetric, error) {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO fitness_metrics (user_id, body_weight, years_lifting,
			squat_weight, bench_weight, overhead_press_weight, deadlift_weight,
			is_elite_fitness, cycle_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, m.UserID, m.BodyWeight, m.YearsLifting,
		m.Maxes.Squat, m.Maxes.Bench, m.Maxes.Overhead, m.Maxes.Deadlift,
		m.IsElite, m.CycleNumber,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return models.FitnessMetric{}, fmt.Errorf("inserting metric: %w", err)
	}
	return m, nil
}
