package progress

import (
	"errors"
	"testing"

	"github.com/claude/ironcycle/internal/models"
)

// TestEliteProgress verifies the worked example: a 200 lb lifter at
// 350/275/185/450 sits at 88/92/93/90 per lift and 91 overall.
func TestEliteProgress(t *testing.T) {
	maxes := models.MaxLifts{Squat: 350, Bench: 275, Overhead: 185, Deadlift: 450}
	r, err := EliteProgress(200, maxes)
	if err != nil {
		t.Fatalf("EliteProgress: %v", err)
	}

	wantGoals := [4]float64{400, 300, 200, 500}
	wantPcts := [4]int{88, 92, 93, 90}
	for i := range r.Lifts {
		if r.Lifts[i].Goal != wantGoals[i] {
			t.Errorf("%v goal = %v, want %v", r.Lifts[i].Lift, r.Lifts[i].Goal, wantGoals[i])
		}
		if r.Lifts[i].Percentage != wantPcts[i] {
			t.Errorf("%v percentage = %d, want %d", r.Lifts[i].Lift, r.Lifts[i].Percentage, wantPcts[i])
		}
	}
	if r.Overall != 91 {
		t.Errorf("overall = %d, want 91", r.Overall)
	}
}

// TestEliteProgressCapped verifies percentages cap at 100 and remaining
// floors at 0 once a goal is passed.
func TestEliteProgressCapped(t *testing.T) {
	maxes := models.MaxLifts{Squat: 500, Bench: 400, Overhead: 250, Deadlift: 600}
	r, err := EliteProgress(200, maxes)
	if err != nil {
		t.Fatalf("EliteProgress: %v", err)
	}
	for _, lp := range r.Lifts {
		if lp.Percentage != 100 {
			t.Errorf("%v percentage = %d, want 100", lp.Lift, lp.Percentage)
		}
		if lp.Remaining != 0 {
			t.Errorf("%v remaining = %v, want 0", lp.Lift, lp.Remaining)
		}
	}
	if r.Overall != 100 {
		t.Errorf("overall = %d, want 100", r.Overall)
	}
}

// TestEliteProgressZeroMaxes verifies the arithmetic is total for zero
// maxes: 0% everywhere, no error.
func TestEliteProgressZeroMaxes(t *testing.T) {
	r, err := EliteProgress(180, models.MaxLifts{})
	if err != nil {
		t.Fatalf("EliteProgress: %v", err)
	}
	if r.Overall != 0 {
		t.Errorf("overall = %d, want 0", r.Overall)
	}
}

// TestEliteProgressInvalidBodyWeight verifies a missing or non-positive
// body weight is rejected with the ErrInvalidInput sentinel.
func TestEliteProgressInvalidBodyWeight(t *testing.T) {
	for _, bw := range []float64{0, -180} {
		_, err := EliteProgress(bw, models.MaxLifts{Squat: 300})
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("EliteProgress(bodyweight=%v): err = %v, want ErrInvalidInput", bw, err)
		}
	}
}
