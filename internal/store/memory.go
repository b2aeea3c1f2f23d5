package store

import (
	"context"
	"sync"
	"time"

	"github.com/claude/ironcycle/internal/models"
	"github.com/google/uuid"
)

type completionKey struct {
	userID      int
	cycleNumber int
	week        int
	lift        models.LiftType
}

// Memory is an in-memory implementation of both store contracts, used by
// tests and as a fallback when no database is configured.
type Memory struct {
	mu          sync.Mutex
	metrics     map[int][]models.FitnessMetric
	completions map[completionKey]models.LiftCompletion

	// now is swappable so tests get strictly increasing timestamps.
	now func() time.Time
}

// Compile-time checks: Memory satisfies both contracts.
var (
	_ MetricsStore    = (*Memory)(nil)
	_ CompletionStore = (*Memory)(nil)
)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	var seq int64
	base := time.Now()
	return &Memory{
		metrics:     make(map[int][]models.FitnessMetric),
		completions: make(map[completionKey]models.LiftCompletion),
		now: func() time.Time {
			seq++
			return base.Add(time.Duration(seq) * time.Millisecond)
		},
	}
}

func (s *Memory) Latest(ctx context.Context, userID int) (models.FitnessMetric, error) {
	if err := ctx.Err(); err != nil {
		return models.FitnessMetric{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.metrics[userID]
	if len(rows) == 0 {
		return models.FitnessMetric{}, ErrNotFound
	}
	return rows[len(rows)-1], nil
}

func (s *Memory) Save(ctx context.Context, m models.FitnessMetric) (models.FitnessMetric, error) {
	if err := ctx.Err(); err != nil {
		return models.FitnessMetric{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = uuid.New()
	m.CreatedAt = s.now()
	s.metrics[m.UserID] = append(s.metrics[m.UserID], m)
	return m, nil
}

func (s *Memory) ListForCycle(ctx context.Context, userID, cycleNumber int) ([]models.LiftCompletion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.LiftCompletion
	for k, c := range s.completions {
		if k.userID == userID && k.cycleNumber == cycleNumber {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Memory) ListForWeek(ctx context.Context, userID, cycleNumber, week int) ([]models.LiftCompletion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.LiftCompletion
	for k, c := range s.completions {
		if k.userID == userID && k.cycleNumber == cycleNumber && k.week == week {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Memory) Upsert(ctx context.Context, c models.LiftCompletion) (models.LiftCompletion, error) {
	if err := ctx.Err(); err != nil {
		return models.LiftCompletion{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reject writes against a cycle older than the latest metric snapshot.
	if rows := s.metrics[c.UserID]; len(rows) > 0 {
		if latest := rows[len(rows)-1].CycleNumber; c.CycleNumber < latest {
			return models.LiftCompletion{}, ErrStaleCycle
		}
	}

	key := completionKey{userID: c.UserID, cycleNumber: c.CycleNumber, week: c.CycleWeek, lift: c.Lift}
	now := s.now()
	if existing, ok := s.completions[key]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		c.ID = uuid.New()
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.completions[key] = c
	return c, nil
}

func (s *Memory) Remove(ctx context.Context, userID, cycleNumber, week int, lift models.LiftType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.completions, completionKey{userID: userID, cycleNumber: cycleNumber, week: week, lift: lift})
	return nil
}
