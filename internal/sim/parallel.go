package sim

import (
	"context"
	"io"
	"log"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
)

// Outcome is the end state of one seeded spin.
type Outcome struct {
	Seed     int64
	Number   int
	Pocket   int
	Ticks    int
	SubSteps int
	Forced   bool
}

// Ensemble spins many seeds in parallel. Each seed gets its own engine; the
// layout is shared read-only.
type Ensemble struct {
	layout    *layout.Layout
	cfg       config.Config
	numRuns   int
	seedStart int64
	randomize bool
	logger    *log.Logger
}

func NewEnsemble(l *layout.Layout, cfg config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		layout:    l,
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		randomize: true,
		logger:    log.New(io.Discard, "", 0),
	}
}

// SetRandomize toggles random ball direction at launch.
func (e *Ensemble) SetRandomize(v bool) { e.randomize = v }

// SetLogger receives the engines' anomaly reports.
func (e *Ensemble) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

func (e *Ensemble) Run(ctx context.Context) ([]Outcome, error) {
	// Fail fast on bad inputs before fanning out.
	if _, err := physics.New(e.layout, &e.cfg); err != nil {
		return nil, err
	}

	out := make([]Outcome, e.numRuns)
	dynamo.ParallelFor(e.numRuns, 4, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return
			}
			out[i] = e.spin(e.seedStart + int64(i))
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Ensemble) spin(seed int64) Outcome {
	cfg := e.cfg
	eng, err := physics.New(e.layout, &cfg, physics.WithSeed(seed), physics.WithLogger(e.logger))
	if err != nil {
		// Unreachable: inputs were validated in Run.
		panic(err)
	}
	eng.Launch(e.randomize)
	for eng.Rolling() {
		eng.Step()
	}
	tm := eng.Telemetry()
	return Outcome{
		Seed:     seed,
		Number:   tm.Result,
		Pocket:   tm.Pocket,
		Ticks:    tm.Ticks,
		SubSteps: tm.SubSteps,
		Forced:   tm.Forced,
	}
}

// Stats summarises an ensemble.
type Stats struct {
	Runs         int
	Forced       int
	MeanTicks    float64
	MaxSubSteps  int
	MeanSubSteps float64
}

func Summarize(outcomes []Outcome) Stats {
	s := Stats{Runs: len(outcomes)}
	if s.Runs == 0 {
		return s
	}
	ticks, subs := 0, 0
	for _, o := range outcomes {
		ticks += o.Ticks
		subs += o.SubSteps
		if o.SubSteps > s.MaxSubSteps {
			s.MaxSubSteps = o.SubSteps
		}
		if o.Forced {
			s.Forced++
		}
	}
	s.MeanTicks = float64(ticks) / float64(s.Runs)
	s.MeanSubSteps = float64(subs) / float64(s.Runs)
	return s
}
