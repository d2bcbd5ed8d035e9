package metrics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/physics"
)

// KineticEnergy is the mean specific kinetic energy of the ball over a run.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(tm physics.Telemetry, t float64) {
	e.totalEnergy += tm.Energy
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

type PeakEnergy struct {
	name string
	peak float64
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (p *PeakEnergy) Name() string { return p.name }

func (p *PeakEnergy) Observe(tm physics.Telemetry, t float64) {
	p.peak = math.Max(p.peak, tm.Energy)
}

func (p *PeakEnergy) Value() float64 { return p.peak }

func (p *PeakEnergy) Reset() { p.peak = 0 }
