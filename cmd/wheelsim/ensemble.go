package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/wheelsim/internal/analysis"
	"github.com/san-kum/wheelsim/internal/automation"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/optim"
	"github.com/san-kum/wheelsim/internal/sim"
	"github.com/san-kum/wheelsim/internal/store"
	"github.com/spf13/cobra"
)

func numbersOf(outcomes []sim.Outcome) []int {
	numbers := make([]int, len(outcomes))
	for i, o := range outcomes {
		numbers[i] = o.Number
	}
	return numbers
}

// printDistribution writes a per-number bar chart and the uniformity test.
func printDistribution(l *layout.Layout, numbers []int) float64 {
	bins := analysis.Histogram(l.Numbers(), numbers)
	peak := 1
	for _, b := range bins {
		peak = max(peak, b.Count)
	}
	for _, b := range bins {
		bar := strings.Repeat("█", b.Count*40/peak)
		fmt.Printf("  %2d │%-40s %d\n", b.Number, bar, b.Count)
	}

	chi, dof := analysis.ChiSquare(bins)
	crit := analysis.ChiSquareCritical(dof)
	verdict := "consistent with uniform"
	if chi > crit {
		verdict = "NOT uniform at 95%"
	}
	fmt.Printf("\nchi-square: %.2f (dof %d, critical %.2f): %s\n", chi, dof, crit, verdict)
	fmt.Printf("numbers hit: %d/%d\n", analysis.Distinct(bins), len(bins))
	return chi
}

func printStats(st sim.Stats, tickDt float64) {
	fmt.Printf("runs: %d  forced: %d\n", st.Runs, st.Forced)
	fmt.Printf("mean spin: %.2fs (%.0f ticks)  sub-steps: mean %.0f, max %d\n",
		st.MeanTicks*tickDt, st.MeanTicks, st.MeanSubSteps, st.MaxSubSteps)
}

func recordBatch(ctx context.Context, label string, seedStart int64, chi float64, outcomes []sim.Outcome) error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	spins := make([]store.Spin, len(outcomes))
	for i, o := range outcomes {
		spins[i] = store.Spin{
			Preset:   label,
			Seed:     o.Seed,
			Number:   o.Number,
			Pocket:   o.Pocket,
			Ticks:    o.Ticks,
			SubSteps: o.SubSteps,
			Forced:   o.Forced,
		}
	}
	id, err := ledger.SaveBatch(ctx, store.Batch{Preset: label, SeedStart: seedStart, ChiSquare: chi}, spins)
	if err != nil {
		return err
	}
	fmt.Printf("recorded batch %s\n", id)
	return nil
}

func benchSpins(cmd *cobra.Command, args []string) error {
	l, _, err := loadLayout()
	if err != nil {
		return err
	}
	cfg, label, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("--runs must be positive, got %d", runs)
	}

	ctx, cancel := signalContext()
	defer cancel()

	ens := sim.NewEnsemble(l, *cfg, runs, seed)
	ens.SetRandomize(randomize)
	ens.SetLogger(newLogger())

	fmt.Printf("benchmarking %s: %d spins from seed %d\n\n", label, runs, seed)
	start := time.Now()
	outcomes, err := ens.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	chi := printDistribution(l, numbersOf(outcomes))
	fmt.Println()
	printStats(sim.Summarize(outcomes), cfg.TickDt)
	fmt.Printf("wall time: %v (%.0f spins/s)\n", elapsed, float64(runs)/elapsed.Seconds())

	if record {
		return recordBatch(ctx, label, seed, chi, outcomes)
	}
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	l, _, err := loadLayout()
	if err != nil {
		return err
	}
	cfg, label, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %s over [%g, %g] on %s, %d spins per value\n\n", param, paramMin, paramMax, label, runs)
	points, err := analysis.Sweep(ctx, l, *cfg, analysis.SweepConfig{
		Param: param,
		Min:   paramMin,
		Max:   paramMax,
		Steps: steps,
		Runs:  runs,
		Seed:  seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN SPIN\tFORCED\tCHI2\tDISTINCT\n", strings.ToUpper(param))
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.2fs\t%d\t%.2f\t%d\n",
			p.Param, p.Stats.MeanTicks*cfg.TickDt, p.Stats.Forced, p.ChiSquare, p.Distinct)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nwinning numbers per value:")
	fmt.Print(analysis.SweepToASCII(points, 70, 18))
	return nil
}

// parseGrid reads name=v1,v2,... specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, err := parseAssign(spec)
		if err != nil {
			return nil, nil, err
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("--grid %s: %w", spec, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	if len(grid) == 0 {
		return fmt.Errorf("tune needs at least one --grid name=v1,v2,...")
	}
	l, _, err := loadLayout()
	if err != nil {
		return err
	}
	cfg, label, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	var obj optim.Objective
	switch goal {
	case "duration":
		obj = optim.SpinDuration(l, runs, seed, target)
	case "uniformity":
		obj = optim.Uniformity(l, runs, seed)
	default:
		return fmt.Errorf("unknown objective %q (duration, uniformity)", goal)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("tuning %s: %d grid points x %d spins, objective %s\n", label, search.Size(), runs, goal)
	best, err := search.Search(ctx, *cfg, obj)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best.Params))
	for k := range best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("\nbest score %.4f after %d evaluations\n", best.Score, best.Evaluated)
	for _, k := range keys {
		fmt.Printf("  --set %s=%g\n", k, best.Params[k])
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	l, _, err := loadLayout()
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, err := automation.RunScenario(ctx, l, sc, newLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tPRESET\tRUNS\tMEAN SPIN\tFORCED\tCHI2\tCRIT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%d\t%.2f\t%.2f\n",
			r.Step.Name, r.Step.Preset, r.Stats.Runs, r.Stats.MeanTicks*r.Config.TickDt,
			r.Stats.Forced, r.ChiSquare, analysis.ChiSquareCritical(r.Dof))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if record {
		for _, r := range results {
			label := sc.Name + "/" + r.Step.Name
			if err := recordBatch(ctx, label, r.Step.Seed, r.ChiSquare, r.Outcomes); err != nil {
				return err
			}
		}
	}
	return nil
}
