package cycle

import (
	"math"

	"github.com/claude/ironcycle/internal/models"
)

// Default end-of-cycle increments in pounds. Fixed; AMRAP performance is
// recorded but does not scale these.
var defaultIncrements = map[models.LiftType]float64{
	models.Squat:    5,
	models.Bench:    2.5,
	models.Overhead: 1.5,
	models.Deadlift: 5,
}

// DefaultIncrement returns the standard increment for a lift.
func DefaultIncrement(lift models.LiftType) float64 {
	return defaultIncrements[lift]
}

// ProposeNextMaxes applies the default increments to the current maxes.
// The proposal is a starting point; the lifter may edit it before commit.
func ProposeNextMaxes(current models.MaxLifts) models.MaxLifts {
	next := current
	for _, lift := range models.Lifts() {
		next = next.Set(lift, current.For(lift)+defaultIncrements[lift])
	}
	return next
}

// RoundHalfPound rounds to the nearest 0.5 lb, the granularity committed
// maxes are stored at.
func RoundHalfPound(x float64) float64 {
	return math.Round(x*2) / 2
}

// NormalizeCommit rounds every max to the half pound before it is persisted.
func NormalizeCommit(maxes models.MaxLifts) models.MaxLifts {
	for _, lift := range models.Lifts() {
		maxes = maxes.Set(lift, RoundHalfPound(maxes.For(lift)))
	}
	return maxes
}
