package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/experiment"
	"github.com/san-kum/wheelsim/internal/export"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
	"github.com/san-kum/wheelsim/internal/storage"
	"github.com/san-kum/wheelsim/internal/store"
	"github.com/spf13/cobra"
)

// newEngine seeds from the clock unless --seed was given.
func newEngine(l *layout.Layout, cfg *config.Config, seeded bool, logger *log.Logger) (*physics.Engine, error) {
	if !seeded {
		seed = time.Now().UnixNano()
	}
	return physics.New(l, cfg, physics.WithSeed(seed), physics.WithLogger(logger))
}

// pathRecorder keeps the ball's world position at every tick.
type pathRecorder struct {
	layout *layout.Layout
	points []export.Point
}

func (p *pathRecorder) OnStep(tm physics.Telemetry, _ float64) {
	x, y := p.layout.WorldPoint(tm.R, tm.Theta)
	p.points = append(p.points, export.Point{X: x, Y: y})
}

func runSpin(cmd *cobra.Command, args []string) error {
	l, layoutName, err := loadLayout()
	if err != nil {
		return err
	}
	cfg, label, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	logger := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(experiment.Config{
		Spin:        cfg,
		Seed:        seed,
		Randomize:   randomize,
		MaxTicks:    maxTicks,
		SampleEvery: sampleEvery,
	})
	if err := exp.Setup(l, logger, registry.DefaultMetrics(l)); err != nil {
		return err
	}
	var path *pathRecorder
	if svgOut != "" {
		path = &pathRecorder{layout: l}
		exp.Simulator().AddObserver(path)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("spinning %s (seed %d)...\n", label, seed)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		logger.Printf("warning: %v", e)
	}

	runID, err := st.Save(storage.RunInfo{
		Preset:    label,
		Layout:    layoutName,
		Seed:      seed,
		Randomize: randomize,
		TickDt:    cfg.TickDt,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	if result.Stopped {
		fmt.Printf("result: %d (pocket %d)\n", result.Number, result.Pocket)
	} else {
		fmt.Println("result: none, tick budget exhausted")
	}
	fmt.Printf("spin time: %.2fs over %d ticks, %d sub-steps\n", result.Duration(), result.Ticks, result.SubSteps)
	if result.Forced {
		fmt.Println("stop was forced by the sub-step cap")
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if path != nil {
		svg := export.PathToSVG(l, path.points, 600, "#ffd24a")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nball path written to %s\n", svgOut)
	}

	if record && result.Stopped {
		ledger, err := openLedger()
		if err != nil {
			return err
		}
		defer ledger.Close()
		id, err := ledger.SaveSpin(ctx, store.Spin{
			RunID:    runID,
			Preset:   label,
			Seed:     seed,
			Number:   result.Number,
			Pocket:   result.Pocket,
			Ticks:    result.Ticks,
			SubSteps: result.SubSteps,
			Forced:   result.Forced,
		})
		if err != nil {
			return err
		}
		fmt.Printf("recorded as %s\n", id)
	}
	return nil
}
