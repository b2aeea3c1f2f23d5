// Package plates decomposes a target bar weight into plates per side from
// a fixed home-gym inventory. All arithmetic runs in eighth-pound integer
// units, so floating-point drift in the target is absorbed once at the
// boundary instead of leaking through the greedy descent.
package plates

import "math"

// BarWeight is the weight of the empty bar in pounds.
const BarWeight = 45.0

// eighths converts pounds to eighth-pound units. Every denomination in the
// inventory, down to the 0.125 lb micro plate, is a whole number of eighths.
func eighths(lbs float64) int {
	return int(math.Round(lbs * 8))
}

func pounds(e int) float64 {
	return float64(e) / 8
}

// Per-side inventory, heaviest first within each group. Unlimited supply.
var (
	standardDenoms = []float64{45, 35, 25}
	smallDenoms    = []float64{10, 5}
	microDenoms    = []float64{2.5, 1.25, 0.5, 0.25, 0.125}
)

// Breakdown is the plates loaded on one side of the bar, heaviest first in
// each group. The three groups carry distinct physical plate classes so
// rendering cannot mis-categorize a denomination.
type Breakdown struct {
	StandardPlates []float64 `json:"standardPlates"`
	SmallPlates    []float64 `json:"smallPlates"`
	MicroPlates    []float64 `json:"microPlates"`

	// Exact is false when the inventory cannot reach the target and the
	// breakdown is the closest loadable weight from below.
	Exact bool `json:"exact"`
}

// BarOnly reports whether no plates are needed (target at or below the bar).
func (b Breakdown) BarOnly() bool {
	return len(b.StandardPlates) == 0 && len(b.SmallPlates) == 0 && len(b.MicroPlates) == 0
}

// PerSide returns the total plate weight on one side.
func (b Breakdown) PerSide() float64 {
	var sum float64
	for _, p := range b.All() {
		sum += p
	}
	return sum
}

// Total returns the loaded bar weight the breakdown realizes.
func (b Breakdown) Total() float64 {
	return BarWeight + 2*b.PerSide()
}

// All returns every plate on one side, heaviest first.
func (b Breakdown) All() []float64 {
	all := make([]float64, 0, len(b.StandardPlates)+len(b.SmallPlates)+len(b.MicroPlates))
	all = append(all, b.StandardPlates...)
	all = append(all, b.SmallPlates...)
	all = append(all, b.MicroPlates...)
	return all
}

// Count returns the number of plates on one side.
func (b Breakdown) Count() int {
	return len(b.StandardPlates) + len(b.SmallPlates) + len(b.MicroPlates)
}

// Solve decomposes target into plates per side. Targets at or below the
// bar weight yield an empty, exact breakdown ("bar only"). When the
// inventory cannot meet the target exactly, Solve returns the best
// decomposition from below with Exact set to false; it never fails.
func Solve(target float64) Breakdown {
	b := Breakdown{Exact: true}

	perSide := (target - BarWeight) / 2
	if perSide <= 0 {
		return b
	}

	// A target that is not a multiple of an eighth pound is not loadable;
	// the solver proceeds with the nearest loadable weight from below.
	const tol = 1e-4
	remaining := eighths(perSide)
	if math.Abs(perSide-pounds(remaining)) > tol {
		if pounds(remaining) > perSide {
			remaining--
		}
		b.Exact = false
	}
	if remaining <= 0 {
		return b
	}

	take := func(denoms []float64, into *[]float64) {
		for _, d := range denoms {
			de := eighths(d)
			for remaining >= de {
				*into = append(*into, d)
				remaining -= de
			}
		}
	}
	take(standardDenoms, &b.StandardPlates)
	take(smallDenoms, &b.SmallPlates)
	take(microDenoms, &b.MicroPlates)

	// The smallest denomination is a single eighth, so the greedy pass
	// always terminates at zero for a whole number of eighths.
	if remaining != 0 {
		b.Exact = false
	}
	return b
}

// RoundToFive rounds a weight to the nearest 5 lb, the granularity all
// prescribed weights use.
func RoundToFive(w float64) float64 {
	return math.Round(w/5) * 5
}
