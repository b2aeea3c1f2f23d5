package progress

import (
	"math"
	"time"

	"github.com/claude/ironcycle/internal/models"
)

// Level buckets lifting experience into the rate tiers.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// LevelForYears assigns the experience tier: under a year is beginner,
// under three intermediate, otherwise advanced.
func LevelForYears(years float64) Level {
	switch {
	case years < 1:
		return Beginner
	case years < 3:
		return Intermediate
	default:
		return Advanced
	}
}

// Conservative monthly 1RM gain estimates in pounds, by tier.
var monthlyRates = map[Level]map[models.LiftType]float64{
	Beginner: {
		models.Squat:    15,
		models.Bench:    10,
		models.Overhead: 5,
		models.Deadlift: 15,
	},
	Intermediate: {
		models.Squat:    10,
		models.Bench:    5,
		models.Overhead: 2.5,
		models.Deadlift: 10,
	},
	Advanced: {
		models.Squat:    5,
		models.Bench:    2.5,
		models.Overhead: 1.5,
		models.Deadlift: 5,
	},
}

// MonthlyRate returns the expected monthly gain for a lift at a tier.
func MonthlyRate(level Level, lift models.LiftType) float64 {
	return monthlyRates[level][lift]
}

// Projection is one lift's path to its elite goal.
type Projection struct {
	Lift        models.LiftType `json:"lift"`
	CurrentMax  float64         `json:"current_max"`
	EliteGoal   float64         `json:"elite_goal"`
	MonthlyGain float64         `json:"monthly_gain"`
	Months      int             `json:"months"`
	TargetDate  time.Time       `json:"target_date"`
}

// Timeline is the projected path to elite across all four lifts.
type Timeline struct {
	Level       Level         `json:"level"`
	Projections [4]Projection `json:"projections"`
}

// Project estimates months to each elite goal from today at the tier's
// monthly rates. A lift already at its goal projects zero months.
func Project(bodyWeight float64, maxes models.MaxLifts, yearsLifting float64, today time.Time) (Timeline, error) {
	report, err := EliteProgress(bodyWeight, maxes)
	if err != nil {
		return Timeline{}, err
	}

	level := LevelForYears(yearsLifting)
	tl := Timeline{Level: level}
	for i, lift := range models.Lifts() {
		goal := EliteGoal(bodyWeight, lift)
		remaining := math.Max(0, goal-maxes.For(lift))
		rate := monthlyRates[level][lift]
		months := int(math.Ceil(remaining / rate))
		tl.Projections[i] = Projection{
			Lift:        lift,
			CurrentMax:  maxes.For(lift),
			EliteGoal:   report.Lifts[i].Goal,
			MonthlyGain: rate,
			Months:      months,
			TargetDate:  addMonths(today, months),
		}
	}
	return tl, nil
}

// addMonths advances by calendar months, clamping the day to the target
// month's length (Jan 31 + 1 month is Feb 28, not Mar 3).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
