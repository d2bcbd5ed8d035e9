package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/physics"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run launches eng and steps it until the ball is captured, the tick budget
// runs out or ctx is cancelled. A cancelled run returns the partial result
// together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, eng Spinner, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every == 0 {
		every = 1
	}

	dt := eng.Config().TickDt
	result := &Result{
		States:  make([]dynamo.State, 0, 1024),
		Times:   make([]float64, 0, 1024),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
		Pocket:  -1,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	eng.Launch(cfg.Randomize)
	tm := eng.Telemetry()
	result.States = append(result.States, tm.Vector())
	result.Times = append(result.Times, 0)

	for tick := 1; eng.Rolling(); tick++ {
		if cfg.MaxTicks > 0 && tick > cfg.MaxTicks {
			result.Errors = append(result.Errors, &dynamo.SimError{
				Tick: tick - 1, Time: float64(tick-1) * dt, State: tm.Vector(), Wrapped: dynamo.ErrTickLimit,
			})
			break
		}

		select {
		case <-ctx.Done():
			s.finish(result, tm)
			return result, ctx.Err()
		default:
		}

		eng.Step()
		tm = eng.Telemetry()
		t := float64(tick) * dt

		for _, m := range s.metrics {
			m.Observe(tm, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(tm, t)
		}

		x := tm.Vector()
		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimError{Tick: tick, Time: t, State: x, Wrapped: dynamo.ErrUnstable})
			break
		}

		if tick%every == 0 || !tm.Rolling {
			result.States = append(result.States, x)
			result.Times = append(result.Times, t)
		}
	}

	s.finish(result, tm)
	if result.Forced {
		result.Errors = append(result.Errors, &dynamo.SimError{
			Tick: result.Ticks, Time: float64(result.Ticks) * dt, State: tm.Vector(), Wrapped: dynamo.ErrStepCap,
		})
	}
	return result, nil
}

func (s *Simulator) finish(result *Result, tm physics.Telemetry) {
	result.Ticks = tm.Ticks
	result.SubSteps = tm.SubSteps
	result.Stopped = tm.HasResult
	result.Forced = tm.Forced
	if tm.HasResult {
		result.Number = tm.Result
		result.Pocket = tm.Pocket
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.MaxTicks < 0 {
		return fmt.Errorf("max ticks must be non-negative, got %d", cfg.MaxTicks)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must be non-negative, got %d", cfg.SampleEvery)
	}
	return nil
}
