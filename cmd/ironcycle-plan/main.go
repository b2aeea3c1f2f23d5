package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/ironcycle/internal/cycle"
	"github.com/claude/ironcycle/internal/models"
	"github.com/claude/ironcycle/internal/planner"
	"github.com/claude/ironcycle/internal/plates"
	"github.com/claude/ironcycle/internal/storage/local"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	dataDir := flag.String("data-dir", "", "local data directory (default ~/.ironcycle)")
	week := flag.Int("week", 0, "print a single week (1-4); 0 prints the whole cycle")
	showPlates := flag.Bool("plates", false, "include per-side plate loadouts")
	bodyWeight := flag.Float64("bodyweight", 0, "save a new profile: body weight in pounds")
	years := flag.Float64("years", 0, "save a new profile: years of lifting experience")
	squat := flag.Float64("squat", 0, "save a new profile: squat 1RM")
	bench := flag.Float64("bench", 0, "save a new profile: bench press 1RM")
	overhead := flag.Float64("overhead", 0, "save a new profile: overhead press 1RM")
	deadlift := flag.Float64("deadlift", 0, "save a new profile: deadlift 1RM")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("ironcycle-plan", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	dir := *dataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot resolve home directory: %v\n", err)
			os.Exit(1)
		}
		dir = filepath.Join(home, ".ironcycle")
	}

	st, err := local.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open data directory %s: %v\n", dir, err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	p := planner.New(st, st, log)

	// Save a fresh profile when maxes are given on the command line.
	if *bodyWeight > 0 {
		maxes := models.MaxLifts{Squat: *squat, Bench: *bench, Overhead: *overhead, Deadlift: *deadlift}
		if _, err := p.SaveProfile(ctx, 1, models.FitnessMetric{
			BodyWeight:   *bodyWeight,
			YearsLifting: *years,
			Maxes:        maxes,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: save profile: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Profile saved.")
	}

	plan, err := p.CurrentPlan(ctx, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Save a profile first, e.g.:\n")
		fmt.Fprintf(os.Stderr, "  ironcycle-plan -bodyweight 200 -years 2 -squat 300 -bench 200 -overhead 120 -deadlift 400\n")
		os.Exit(1)
	}

	state, err := p.State(ctx, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load cycle state: %v\n", err)
		os.Exit(1)
	}

	if *week < 0 || *week > cycle.WeeksPerCycle {
		fmt.Fprintf(os.Stderr, "Error: -week must be between 1 and %d\n", cycle.WeeksPerCycle)
		os.Exit(1)
	}

	printPlan(plan, state, *week, *showPlates)
}

func printPlan(plan cycle.Prescription, state cycle.State, onlyWeek int, showPlates bool) {
	fmt.Printf("=== Cycle %d ===\n", state.CycleNumber)
	fmt.Println()
	fmt.Println("Training maxes:")
	for _, lift := range models.Lifts() {
		fmt.Printf("  %-14s %6.0f lbs\n", lift.DisplayName(), plan.TrainingMaxes[lift])
	}

	for _, wk := range plan.Weeks {
		if onlyWeek != 0 && wk.Week != onlyWeek {
			continue
		}
		marker := ""
		if wk.Week == state.CurrentWeek && !state.CycleComplete {
			marker = "  <- current"
		}
		fmt.Printf("\nWeek %d: %s%s\n", wk.Week, wk.Name, marker)

		for _, lift := range models.Lifts() {
			weights := wk.Weights[lift]
			status := " "
			if s, ok := state.StatusFor(wk.Week, lift); ok {
				if s == models.StatusNailed {
					status = "+"
				} else {
					status = "x"
				}
			}
			fmt.Printf("  [%s] %-14s %5.0f / %5.0f / %5.0f  (%s)\n",
				status, lift.DisplayName(), weights[0], weights[1], weights[2],
				strings.Join(wk.Reps[:], ", "))

			if showPlates {
				b := plates.Solve(weights[2])
				fmt.Printf("      top set: %s\n", plates.Sections(b))
			}
		}
	}
	fmt.Println()
}
