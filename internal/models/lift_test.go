package models

import (
	"encoding/json"
	"testing"
)

// TestParseLift verifies every wire literal round-trips through ParseLift
// and String.
func TestParseLift(t *testing.T) {
	for _, l := range Lifts() {
		got, err := ParseLift(l.String())
		if err != nil {
			t.Fatalf("ParseLift(%q): %v", l.String(), err)
		}
		if got != l {
			t.Errorf("ParseLift(%q) = %v, want %v", l.String(), got, l)
		}
	}
}

// TestParseLiftUnknown verifies unknown literals are rejected rather than
// mapped to a default lift.
func TestParseLiftUnknown(t *testing.T) {
	if _, err := ParseLift("curl"); err == nil {
		t.Error("ParseLift(\"curl\"): expected error")
	}
	if _, err := ParseLift(""); err == nil {
		t.Error("ParseLift(\"\"): expected error")
	}
}

// TestLiftTypeJSONMapKey verifies LiftType works as a JSON map key via
// MarshalText, which the prescription payload relies on.
func TestLiftTypeJSONMapKey(t *testing.T) {
	in := map[LiftType]float64{Squat: 300, Deadlift: 400}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[LiftType]float64
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[Squat] != 300 || out[Deadlift] != 400 {
		t.Errorf("round-trip = %v, want %v", out, in)
	}
}

// TestLiftCodes verifies the four-letter codes used in clipboard share
// text.
func TestLiftCodes(t *testing.T) {
	want := map[LiftType]string{
		Squat:    "SQAT",
		Bench:    "BNCH",
		Overhead: "OHPR",
		Deadlift: "DLFT",
	}
	for l, code := range want {
		if got := l.Code(); got != code {
			t.Errorf("%v.Code() = %q, want %q", l, got, code)
		}
	}
}

// TestParseStatus verifies only the two valid statuses parse.
func TestParseStatus(t *testing.T) {
	for _, s := range []string{"nailed", "failed"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q): %v", s, err)
		}
	}
	if _, err := ParseStatus("skipped"); err == nil {
		t.Error("ParseStatus(\"skipped\"): expected error")
	}
}
