// Package cycle implements the 5/3/1 four-week progression: prescription
// generation from current one-rep maxes, completion-state aggregation, and
// the end-of-cycle review.
package cycle

import (
	"math"

	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/plates"
)

// WeeksPerCycle is the length of one progression block; LiftsPerCycle is
// the number of sessions in it.
const (
	WeeksPerCycle = 4
	LiftsPerCycle = 16
)

// TrainingMax is 90% of the one-rep max, rounded half away from zero.
// Every prescribed weight derives from it, never from the raw 1RM.
func TrainingMax(oneRepMax float64) float64 {
	return math.Round(oneRepMax * 0.9)
}

// weekScheme is the fixed percentage/rep template for one week.
type weekScheme struct {
	name     string
	percents [3]float64
	reps     [3]string
	amrap    bool // final set is as-many-reps-as-possible
}

var schemes = [WeeksPerCycle]weekScheme{
	{name: "5-week", percents: [3]float64{0.65, 0.75, 0.85}, reps: [3]string{"5 reps", "5 reps", "5+ reps"}, amrap: true},
	{name: "3-week", percents: [3]float64{0.70, 0.80, 0.90}, reps: [3]string{"3 reps", "3 reps", "3+ reps"}, amrap: true},
	{name: "🔥 Fire Week", percents: [3]float64{0.75, 0.85, 0.95}, reps: [3]string{"5 reps", "3 reps", "1+ reps"}, amrap: true},
	{name: "Deload", percents: [3]float64{0.40, 0.50, 0.60}, reps: [3]string{"5 reps", "5 reps", "5 reps"}},
}

// WeekName returns the display name for a cycle week (1-based).
func WeekName(week int) string {
	if week < 1 || week > WeeksPerCycle {
		return ""
	}
	return schemes[week-1].name
}

// WeekWeights applies the week's percentages to a training max, rounding
// each set weight to the nearest 5 lb. Weights come back in set order,
// which is also ascending order.
func WeekWeights(trainingMax float64, week int) [3]float64 {
	var w [3]float64
	if week < 1 || week > WeeksPerCycle {
		return w
	}
	for i, p := range schemes[week-1].percents {
		w[i] = plates.RoundToFive(trainingMax * p)
	}
	return w
}

// WeekPrescription is the prescription for every lift in one week.
type WeekPrescription struct {
	Week    int                            `json:"week"`
	Name    string                         `json:"name"`
	Reps    [3]string                      `json:"reps"`
	Amrap   bool                           `json:"amrap"`
	Weights map[models.LiftType][3]float64 `json:"weights"`
}

// Prescription is the full four-week table derived from a set of maxes.
// It is a pure value and is never persisted.
type Prescription struct {
	TrainingMaxes map[models.LiftType]float64     `json:"training_maxes"`
	Weeks         [WeeksPerCycle]WeekPrescription `json:"weeks"`
}

// SetWeights returns the three prescribed weights for a (week, lift) pair.
func (p Prescription) SetWeights(week int, lift models.LiftType) [3]float64 {
	if week < 1 || week > WeeksPerCycle {
		return [3]float64{}
	}
	return p.Weeks[week-1].Weights[lift]
}

// TopWeight returns the heaviest prescribed set for a (week, lift) pair.
func (p Prescription) TopWeight(week int, lift models.LiftType) float64 {
	w := p.SetWeights(week, lift)
	return w[2]
}

// Generate derives the full cycle prescription from current maxes.
func Generate(maxes models.MaxLifts) Prescription {
	p := Prescription{TrainingMaxes: make(map[models.LiftType]float64, 4)}
	for _, lift := range models.Lifts() {
		p.TrainingMaxes[lift] = TrainingMax(maxes.For(lift))
	}
	for week := 1; week <= WeeksPerCycle; week++ {
		s := schemes[week-1]
		wp := WeekPrescription{
			Week:    week,
			Name:    s.name,
			Reps:    s.reps,
			Amrap:   s.amrap,
			Weights: make(map[models.LiftType][3]float64, 4),
		}
		for _, lift := range models.Lifts() {
			wp.Weights[lift] = WeekWeights(p.TrainingMaxes[lift], week)
		}
		p.Weeks[week-1] = wp
	}
	return p
}

// AmrapWeek reports whether the given week records AMRAP reps on its final
// set. Only week 3 completions store the rep count.
func AmrapWeek(week int) bool {
	return week == 3
}
