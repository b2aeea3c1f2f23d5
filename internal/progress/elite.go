// Package progress measures a lifter against body-weight-relative elite
// strength standards and projects how long reaching them will take.
package progress

import (
	"fmt"
	"math"

	"github.com/claude/ironcycle/internal/models"
)

// Elite goals are body-weight multiples per lift.
var eliteMultipliers = map[models.LiftType]float64{
	models.Squat:    2.0,
	models.Bench:    1.5,
	models.Overhead: 1.0,
	models.Deadlift: 2.5,
}

// EliteGoal returns the elite target for a lift at the given body weight.
func EliteGoal(bodyWeight float64, lift models.LiftType) float64 {
	return bodyWeight * eliteMultipliers[lift]
}

// LiftProgress is one lift's standing against its elite goal.
type LiftProgress struct {
	Lift       models.LiftType `json:"lift"`
	Current    float64         `json:"current"`
	Goal       float64         `json:"goal"`
	Percentage int             `json:"percentage"`
	Remaining  float64         `json:"remaining"`
}

// Report is the full elite-progress picture across the four lifts.
type Report struct {
	Lifts   [4]LiftProgress `json:"lifts"`
	Overall int             `json:"overall"`
}

// EliteProgress computes per-lift and overall progress toward the elite
// goals. Callers must supply a positive body weight; the view gates on a
// completed profile before asking.
func EliteProgress(bodyWeight float64, maxes models.MaxLifts) (Report, error) {
	if bodyWeight <= 0 {
		return Report{}, fmt.Errorf("%w: body weight must be positive, got %v", models.ErrInvalidInput, bodyWeight)
	}

	var r Report
	sum := 0
	for i, lift := range models.Lifts() {
		goal := EliteGoal(bodyWeight, lift)
		current := maxes.For(lift)
		pct := int(math.Min(100, math.Round(100*current/goal)))
		r.Lifts[i] = LiftProgress{
			Lift:       lift,
			Current:    current,
			Goal:       math.Round(goal),
			Percentage: pct,
			Remaining:  math.Max(0, math.Round(goal-current)),
		}
		sum += pct
	}
	r.Overall = int(math.Round(float64(sum) / 4))
	return r, nil
}
