package experiment

import (
	"context"
	"fmt"
	"log"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
	"github.com/san-kum/wheelsim/internal/sim"
)

// Config describes one recorded spin.
type Config struct {
	Preset      string
	Spin        *config.Config // nil means the preset's tuning
	Seed        int64
	Randomize   bool
	MaxTicks    int
	SampleEvery int
}

type Experiment struct {
	cfg       Config
	engine    *physics.Engine
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the engine on l and attaches metrics to a fresh simulator.
func (e *Experiment) Setup(l *layout.Layout, logger *log.Logger, metrics []sim.Metric) error {
	spin := e.cfg.Spin
	if spin == nil {
		spin = config.GetPreset(e.cfg.Preset)
		if spin == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", e.cfg.Preset, config.ListPresets())
		}
	}
	eng, err := physics.New(l, spin, physics.WithSeed(e.cfg.Seed), physics.WithLogger(logger))
	if err != nil {
		return err
	}
	e.engine = eng
	e.simulator = sim.New()
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.engine, sim.RunConfig{
		MaxTicks:      e.cfg.MaxTicks,
		SampleEvery:   e.cfg.SampleEvery,
		Randomize:     e.cfg.Randomize,
		ValidateState: true,
	})
}

// Simulator exposes the runner so callers can attach observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Engine() *physics.Engine { return e.engine }
