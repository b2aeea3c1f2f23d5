package cycle

import (
	"fmt"
	"sort"

	"github.com/claude/ironcycle/internal/models"
)

// CompletionKey identifies one session within a cycle.
type CompletionKey struct {
	Week int
	Lift models.LiftType
}

// State is the derived view of a cycle's progress. It is recomputed from
// the completion store after every mutation, never updated optimistically.
type State struct {
	CycleNumber    int                                     `json:"cycle_number"`
	Completions    map[CompletionKey]models.LiftCompletion `json:"-"`
	CompletedWeeks []int                                   `json:"completed_weeks"`
	CurrentWeek    int                                     `json:"current_week"`
	CycleComplete  bool                                    `json:"cycle_complete"`
}

// StatusFor returns the recorded status for a (week, lift) pair, or false
// when the session has not been resolved.
func (s State) StatusFor(week int, lift models.LiftType) (models.LiftStatus, bool) {
	c, ok := s.Completions[CompletionKey{Week: week, Lift: lift}]
	if !ok {
		return "", false
	}
	return c.Status, true
}

// Derive aggregates a cycle's completions into its current state. A week
// counts as completed once all four lifts are resolved, whatever their
// status; the current week is the one after the last completed week,
// capped at the deload week.
func Derive(cycleNumber int, completions []models.LiftCompletion) State {
	s := State{
		CycleNumber: cycleNumber,
		Completions: make(map[CompletionKey]models.LiftCompletion, len(completions)),
	}
	for _, c := range completions {
		if c.CycleNumber != cycleNumber {
			continue
		}
		s.Completions[CompletionKey{Week: c.CycleWeek, Lift: c.Lift}] = c
	}

	for week := 1; week <= WeeksPerCycle; week++ {
		done := true
		for _, lift := range models.Lifts() {
			if _, ok := s.Completions[CompletionKey{Week: week, Lift: lift}]; !ok {
				done = false
				break
			}
		}
		if done {
			s.CompletedWeeks = append(s.CompletedWeeks, week)
		}
	}
	sort.Ints(s.CompletedWeeks)

	switch n := len(s.CompletedWeeks); {
	case n == 0:
		s.CurrentWeek = 1
	case n == WeeksPerCycle:
		s.CurrentWeek = WeeksPerCycle
	default:
		last := s.CompletedWeeks[n-1]
		s.CurrentWeek = last + 1
		if s.CurrentWeek > WeeksPerCycle {
			s.CurrentWeek = WeeksPerCycle
		}
	}

	s.CycleComplete = len(s.Completions) == LiftsPerCycle
	return s
}

// ShareText builds the clipboard line for a freshly resolved lift, using
// the four-letter lift code and the top set weight.
func ShareText(lift models.LiftType, status models.LiftStatus, topWeight float64) string {
	verdict := "NAILED IT"
	if status == models.StatusFailed {
		verdict = "FAILED"
	}
	return fmt.Sprintf("%s %.0f lbs — %s", lift.Code(), topWeight, verdict)
}
