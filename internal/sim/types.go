package sim

import (
	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/physics"
)

// Spinner is the part of a physics engine a runner drives.
type Spinner interface {
	Launch(randomizeSigns bool)
	Step()
	Rolling() bool
	Telemetry() physics.Telemetry
	Config() config.Config
}

type Metric interface {
	Name() string
	Observe(tm physics.Telemetry, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(tm physics.Telemetry, t float64)
}

type RunConfig struct {
	MaxTicks      int  // 0: run until capture
	SampleEvery   int  // ticks between recorded samples, 0 means every tick
	Randomize     bool // random ball direction at launch
	ValidateState bool
}

type Result struct {
	States  []dynamo.State // rows follow physics.VectorLabels
	Times   []float64
	Metrics map[string]float64

	Ticks    int
	SubSteps int
	Number   int
	Pocket   int
	Stopped  bool
	Forced   bool
	Errors   []error
}

// Duration is the simulated time covered by the run.
func (r *Result) Duration() float64 {
	if len(r.Times) == 0 {
		return 0
	}
	return r.Times[len(r.Times)-1]
}
