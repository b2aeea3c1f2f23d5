package local

import (
	"context"
	"testing"

	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/store"
	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestSaveAndLatest verifies a saved snapshot round-trips through SQLite
// equal in all non-identity fields.
func TestSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Latest(ctx, 1); err != store.ErrNotFound {
		t.Fatalf("Latest on empty store: %v, want ErrNotFound", err)
	}

	m := models.FitnessMetric{
		UserID:       1,
		BodyWeight:   200,
		YearsLifting: 2.5,
		Maxes:        models.MaxLifts{Squat: 300, Bench: 202.5, Overhead: 121.5, Deadlift: 400},
		IsElite:      true,
		CycleNumber:  1,
	}
	saved, err := s.Save(ctx, m)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == uuid.Nil || saved.CreatedAt.IsZero() {
		t.Error("Save should assign id and timestamp")
	}

	got, err := s.Latest(ctx, 1)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !got.Equal(m) {
		t.Errorf("Latest = %+v, want %+v", got, m)
	}
}

// TestLatestTracksNewest verifies ordering across multiple snapshots,
// including ones saved within the same timestamp granularity.
func TestLatestTracksNewest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for cycleNum := 1; cycleNum <= 3; cycleNum++ {
		m := models.FitnessMetric{UserID: 1, BodyWeight: 200, CycleNumber: cycleNum}
		if _, err := s.Save(ctx, m); err != nil {
			t.Fatalf("Save cycle %d: %v", cycleNum, err)
		}
	}
	got, err := s.Latest(ctx, 1)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.CycleNumber != 3 {
		t.Errorf("Latest cycle = %d, want 3", got.CycleNumber)
	}
}

// TestCompletionUpsertRoundTrip verifies upsert, uniqueness per key, AMRAP
// persistence and removal.
func TestCompletionUpsertRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	reps := 6
	c := models.LiftCompletion{
		UserID:      1,
		CycleNumber: 1,
		CycleWeek:   3,
		Lift:        models.Deadlift,
		Status:      models.StatusNailed,
		Set1Weight:  270,
		Set2Weight:  305,
		Set3Weight:  340,
		AmrapReps:   &reps,
	}
	if _, err := s.Upsert(ctx, c); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	c.Status = models.StatusFailed
	if _, err := s.Upsert(ctx, c); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	rows, err := s.ListForCycle(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListForCycle: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	got := rows[0]
	if got.Status != models.StatusFailed {
		t.Errorf("status = %v, want failed", got.Status)
	}
	if got.AmrapReps == nil || *got.AmrapReps != 6 {
		t.Errorf("amrap = %v, want 6", got.AmrapReps)
	}
	if got.SetWeights() != [3]float64{270, 305, 340} {
		t.Errorf("weights = %v", got.SetWeights())
	}

	if err := s.Remove(ctx, 1, 1, 3, models.Deadlift); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	rows, _ = s.ListForCycle(ctx, 1, 1)
	if len(rows) != 0 {
		t.Errorf("rows after remove = %d, want 0", len(rows))
	}
}

// TestUpsertStaleCycle verifies the stale-cycle guard against the latest
// metric snapshot.
func TestUpsertStaleCycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, models.FitnessMetric{UserID: 1, BodyWeight: 200, CycleNumber: 4}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	c := models.LiftCompletion{UserID: 1, CycleNumber: 3, CycleWeek: 1, Lift: models.Squat, Status: models.StatusNailed}
	if _, err := s.Upsert(ctx, c); err != store.ErrStaleCycle {
		t.Errorf("Upsert stale: %v, want ErrStaleCycle", err)
	}
}

// TestListForWeek verifies the week filter.
func TestListForWeek(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for week := 1; week <= 2; week++ {
		c := models.LiftCompletion{UserID: 1, CycleNumber: 1, CycleWeek: week, Lift: models.Bench, Status: models.StatusNailed}
		if _, err := s.Upsert(ctx, c); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	rows, err := s.ListForWeek(ctx, 1, 1, 1)
	if err != nil {
		t.Fatalf("ListForWeek: %v", err)
	}
	if len(rows) != 1 || rows[0].CycleWeek != 1 {
		t.Errorf("ListForWeek = %+v", rows)
	}
}
