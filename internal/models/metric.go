package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInput marks validation failures on caller-supplied values.
// Wrappers add detail; transports match it with errors.Is and answer
// with a 400-class response.
var ErrInvalidInput = errors.New("invalid input")

// MaxLifts holds the current one-rep max for each lift, in pounds.
type MaxLifts struct {
	Squat    float64 `json:"squat"`
	Bench    float64 `json:"bench"`
	Overhead float64 `json:"overhead"`
	Deadlift float64 `json:"deadlift"`
}

// For returns the max for the given lift.
func (m MaxLifts) For(l LiftType) float64 {
	switch l {
	case Squat:
		return m.Squat
	case Bench:
		return m.Bench
	case Overhead:
		return m.Overhead
	default:
		return m.Deadlift
	}
}

// Set returns a copy with the given lift's max replaced.
func (m MaxLifts) Set(l LiftType, v float64) MaxLifts {
	switch l {
	case Squat:
		m.Squat = v
	case Bench:
		m.Bench = v
	case Overhead:
		m.Overhead = v
	case Deadlift:
		m.Deadlift = v
	}
	return m
}

// FitnessMetric is an immutable snapshot of a lifter's profile. A new row
// is written whenever the profile changes or a cycle is committed; the
// latest row by CreatedAt is the source of truth for the cycle number.
type FitnessMetric struct {
	ID           uuid.UUID `json:"id"`
	UserID       int       `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	BodyWeight   float64   `json:"body_weight"`
	YearsLifting float64   `json:"years_lifting"`
	Maxes        MaxLifts  `json:"maxes"`
	IsElite      bool      `json:"is_elite_fitness"`
	CycleNumber  int       `json:"cycle_number"`
}

// Equal reports semantic equality, ignoring ID and CreatedAt. The planner
// skips the store write when a new snapshot equals the latest one.
func (m FitnessMetric) Equal(o FitnessMetric) bool {
	return m.UserID == o.UserID &&
		m.BodyWeight == o.BodyWeight &&
		m.YearsLifting == o.YearsLifting &&
		m.Maxes == o.Maxes &&
		m.IsElite == o.IsElite &&
		m.CycleNumber == o.CycleNumber
}

// LiftCompletion records that a (cycle, week, lift) session was attempted
// and resolved. At most one exists per (user, cycle, week, lift); re-saving
// upserts and explicit clearing deletes.
type LiftCompletion struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int        `json:"user_id"`
	CycleNumber int        `json:"cycle_number"`
	CycleWeek   int        `json:"cycle_week"`
	Lift        LiftType   `json:"lift_type"`
	Status      LiftStatus `json:"status"`
	Set1Weight  float64    `json:"set1_weight"`
	Set2Weight  float64    `json:"set2_weight"`
	Set3Weight  float64    `json:"set3_weight"`
	AmrapReps   *int       `json:"amrap_reps,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SetWeights returns the three snapshot weights in set order.
func (c LiftCompletion) SetWeights() [3]float64 {
	return [3]float64{c.Set1Weight, c.Set2Weight, c.Set3Weight}
}
