package plates

import (
	"fmt"
	"strconv"
	"strings"
)

// BarOnlyText is shown when a target needs no plates.
const BarOnlyText = "Bar only"

// EmptySlot pads glyph rows so breakdowns of different lengths align.
const EmptySlot = "⬜"

// One glyph per denomination: squares for standard plates, circles for
// small plates, diamonds for micros.
var plateGlyphs = map[float64]string{
	45:    "🟦",
	35:    "🟨",
	25:    "🟥",
	10:    "🔵",
	5:     "⚪",
	2.5:   "🔶",
	1.25:  "🔸",
	0.5:   "🔹",
	0.25:  "🔹",
	0.125: "🔹",
}

// formatWeight trims trailing zeros so 45 renders as "45" and 1.25 as "1.25".
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// Text renders a grouped breakdown for display, one line per denomination,
// heaviest first: "2 × 45 lb plates". An empty breakdown renders BarOnlyText.
func Text(b Breakdown) string {
	all := b.All()
	if len(all) == 0 {
		return BarOnlyText
	}

	var lines []string
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j] == all[i] {
			j++
		}
		lines = append(lines, fmt.Sprintf("%d × %s lb plates", j-i, formatWeight(all[i])))
		i = j
	}
	return strings.Join(lines, "\n")
}

// Sections renders the breakdown as labelled groups on a single line,
// "Standard: 2x45 lb | Small: 1x5 lb", the compact share format.
func Sections(b Breakdown) string {
	section := func(label string, group []float64) string {
		if len(group) == 0 {
			return ""
		}
		var parts []string
		for i := 0; i < len(group); {
			j := i
			for j < len(group) && group[j] == group[i] {
				j++
			}
			parts = append(parts, fmt.Sprintf("%dx%s lb", j-i, formatWeight(group[i])))
			i = j
		}
		return label + ": " + strings.Join(parts, ", ")
	}

	var sections []string
	for _, s := range []string{
		section("Standard", b.StandardPlates),
		section("Small", b.SmallPlates),
		section("Micro", b.MicroPlates),
	} {
		if s != "" {
			sections = append(sections, s)
		}
	}
	if len(sections) == 0 {
		return BarOnlyText
	}
	return strings.Join(sections, " | ")
}

// Glyphs renders one glyph per plate, heaviest first, padded with EmptySlot
// up to minSlots so multiple rendered rows align visually.
func Glyphs(b Breakdown, minSlots int) string {
	var sb strings.Builder
	n := 0
	for _, p := range b.All() {
		if g, ok := plateGlyphs[p]; ok {
			sb.WriteString(g)
			n++
		}
	}
	for ; n < minSlots; n++ {
		sb.WriteString(EmptySlot)
	}
	return sb.String()
}
