package models

import "fmt"

// LiftType identifies one of the four main lifts. It is a closed enum;
// the zero value is Squat.
type LiftType int

const (
	Squat LiftType = iota
	Bench
	Overhead
	Deadlift
)

// Lifts returns all four lifts in canonical order (the order the
// prescription tables use).
func Lifts() [4]LiftType {
	return [4]LiftType{Squat, Bench, Overhead, Deadlift}
}

var liftNames = [4]string{"squat", "bench", "overhead", "deadlift"}

var liftDisplayNames = [4]string{"Squat", "Bench Press", "Overhead Press", "Deadlift"}

// Four-letter codes used in share text and compact table headers.
var liftCodes = [4]string{"SQAT", "BNCH", "OHPR", "DLFT"}

func (l LiftType) String() string {
	if l < Squat || l > Deadlift {
		return fmt.Sprintf("LiftType(%d)", int(l))
	}
	return liftNames[l]
}

// DisplayName returns the human-readable lift name.
func (l LiftType) DisplayName() string {
	if l < Squat || l > Deadlift {
		return l.String()
	}
	return liftDisplayNames[l]
}

// Code returns the four-letter share code for the lift.
func (l LiftType) Code() string {
	if l < Squat || l > Deadlift {
		return "????"
	}
	return liftCodes[l]
}

// ParseLift converts a wire/database literal into a LiftType.
func ParseLift(s string) (LiftType, error) {
	for i, name := range liftNames {
		if s == name {
			return LiftType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lift type %q", s)
}

// MarshalText renders the lift as its lowercase literal, so LiftType can
// key JSON maps and round-trip through the API.
func (l LiftType) MarshalText() ([]byte, error) {
	if l < Squat || l > Deadlift {
		return nil, fmt.Errorf("invalid lift type %d", int(l))
	}
	return []byte(liftNames[l]), nil
}

func (l *LiftType) UnmarshalText(b []byte) error {
	parsed, err := ParseLift(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LiftStatus is the outcome recorded for a completed lift session.
type LiftStatus string

const (
	StatusNailed LiftStatus = "nailed"
	StatusFailed LiftStatus = "failed"
)

// ParseStatus validates a wire/database status literal.
func ParseStatus(s string) (LiftStatus, error) {
	switch LiftStatus(s) {
	case StatusNailed, StatusFailed:
		return LiftStatus(s), nil
	}
	return "", fmt.Errorf("unknown lift status %q", s)
}
