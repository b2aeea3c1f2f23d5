// Package local is a single-user SQLite implementation of the store
// contracts, used by the offline CLI and the local MCP mode. The schema
// mirrors the Postgres one minus the users table; everything is owned by
// user 1.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/store"
)

// Store is a SQLite-backed implementation of both store contracts.
type Store struct {
	db *sql.DB
}

var (
	_ store.MetricsStore    = (*Store)(nil)
	_ store.CompletionStore = (*Store)(nil)
)

// Open opens (or creates) the database at dir/ironcycle.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "ironcycle.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS fitness_metrics (
			id                    TEXT PRIMARY KEY,
			user_id               INTEGER NOT NULL,
			created_at            TIMESTAMP NOT NULL,
			body_weight           REAL NOT NULL,
			years_lifting         REAL NOT NULL DEFAULT 0,
			squat_weight          REAL NOT NULL DEFAULT 0,
			bench_weight          REAL NOT NULL DEFAULT 0,
			overhead_press_weight REAL NOT NULL DEFAULT 0,
			deadlift_weight       REAL NOT NULL DEFAULT 0,
			is_elite_fitness      INTEGER NOT NULL DEFAULT 0,
			cycle_number          INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lift_completions (
			id           TEXT PRIMARY KEY,
			user_id      INTEGER NOT NULL,
			cycle_number INTEGER NOT NULL,
			cycle_week   INTEGER NOT NULL,
			lift_type    TEXT NOT NULL,
			status       TEXT NOT NULL,
			set1_weight  REAL NOT NULL,
			set2_weight  REAL NOT NULL,
			set3_weight  REAL NOT NULL,
			amrap_reps   INTEGER,
			created_at   TIMESTAMP NOT NULL,
			updated_at   TIMESTAMP NOT NULL,
			UNIQUE (user_id, cycle_number, cycle_week, lift_type)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Latest(ctx context.Context, userID int) (models.FitnessMetric, error) {
	var m models.FitnessMetric
	var id string
	var elite int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, body_weight, years_lifting,
		       squat_weight, bench_weight, overhead_press_weight, deadlift_weight,
		       is_elite_fitness, cycle_number
		FROM fitness_metrics
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, userID).Scan(
		&id, &m.UserID, &m.CreatedAt, &m.BodyWeight, &m.YearsLifting,
		&m.Maxes.Squat, &m.Maxes.Bench, &m.Maxes.Overhead, &m.Maxes.Deadlift,
		&elite, &m.CycleNumber,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FitnessMetric{}, store.ErrNotFound
	}
	if err != nil {
		return models.FitnessMetric{}, fmt.Errorf("querying latest metric: %w", err)
	}
	if m.ID, err = uuid.Parse(id); err != nil {
		return models.FitnessMetric{}, fmt.Errorf("parsing metric id: %w", err)
	}
	m.IsElite = elite != 0
	return m, nil
}

func (s *Store) Save(ctx context.Context, m models.FitnessMetric) (models.FitnessMetric, error) {
	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()
	elite := 0
	if m.IsElite {
		elite = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fitness_metrics (id, user_id, created_at, body_weight, years_lifting,
			squat_weight, bench_weight, overhead_press_weight, deadlift_weight,
			is_elite_fitness, cycle_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID.String(), m.UserID, m.CreatedAt, m.BodyWeight, m.YearsLifting,
		m.Maxes.Squat, m.Maxes.Bench, m.Maxes.Overhead, m.Maxes.Deadlift,
		elite, m.CycleNumber)
	if err != nil {
		return models.FitnessMetric{}, fmt.Errorf("inserting metric: %w", err)
	}
	return m, nil
}

func (s *Store) listCompletions(ctx context.Context, query string, args ...any) ([]models.LiftCompletion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	var out []models.LiftCompletion
	for rows.Next() {
		var c models.LiftCompletion
		var id, liftType, status string
		var amrap sql.NullInt64
		if err := rows.Scan(
			&id, &c.UserID, &c.CycleNumber, &c.CycleWeek, &liftType, &status,
			&c.Set1Weight, &c.Set2Weight, &c.Set3Weight, &amrap,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing completion id: %w", err)
		}
		if c.Lift, err = models.ParseLift(liftType); err != nil {
			return nil, err
		}
		if c.Status, err = models.ParseStatus(status); err != nil {
			return nil, err
		}
		if amrap.Valid {
			reps := int(amrap.Int64)
			c.AmrapReps = &reps
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const completionColumns = `id, user_id, cycle_number, cycle_week, lift_type, status,
	set1_weight, set2_weight, set3_weight, amrap_reps, created_at, updated_at`

func (s *Store) ListForCycle(ctx context.Context, userID, cycleNumber int) ([]models.LiftCompletion, error) {
	return s.listCompletions(ctx, `
		SELECT `+completionColumns+`
		FROM lift_completions
		WHERE user_id = ? AND cycle_number = ?
		ORDER BY cycle_week, lift_type
	`, userID, cycleNumber)
}

func (s *Store) ListForWeek(ctx context.Context, userID, cycleNumber, week int) ([]models.LiftCompletion, error) {
	return s.listCompletions(ctx, `
		SELECT `+completionColumns+`
		FROM lift_completions
		WHERE user_id = ? AND cycle_number = ? AND cycle_week = ?
		ORDER BY lift_type
	`, userID, cycleNumber, week)
}

func (s *Store) Upsert(ctx context.Context, c models.LiftCompletion) (models.LiftCompletion, error) {
	var latestCycle int
	err := s.db.QueryRowContext(ctx, `
		SELECT cycle_number FROM fitness_metrics
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, c.UserID).Scan(&latestCycle)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.LiftCompletion{}, fmt.Errorf("checking cycle number: %w", err)
	}
	if err == nil && c.CycleNumber < latestCycle {
		return models.LiftCompletion{}, store.ErrStaleCycle
	}

	now := time.Now().UTC()
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now

	var amrap any
	if c.AmrapReps != nil {
		amrap = *c.AmrapReps
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lift_completions (id, user_id, cycle_number, cycle_week, lift_type,
			status, set1_weight, set2_weight, set3_weight, amrap_reps, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, cycle_number, cycle_week, lift_type) DO UPDATE SET
			status = excluded.status,
			set1_weight = excluded.set1_weight,
			set2_weight = excluded.set2_weight,
			set3_weight = excluded.set3_weight,
			amrap_reps = excluded.amrap_reps,
			updated_at = excluded.updated_at
	`, c.ID.String(), c.UserID, c.CycleNumber, c.CycleWeek, c.Lift.String(),
		string(c.Status), c.Set1Weight, c.Set2Weight, c.Set3Weight, amrap, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return models.LiftCompletion{}, fmt.Errorf("upserting completion: %w", err)
	}
	return c, nil
}

func (s *Store) Remove(ctx context.Context, userID, cycleNumber, week int, lift models.LiftType) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM lift_completions
		WHERE user_id = ? AND cycle_number = ? AND cycle_week = ? AND lift_type = ?
	`, userID, cycleNumber, week, lift.String())
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}
	return nil
}
