package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
	"github.com/san-kum/wheelsim/internal/sim"
)

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(physics.Telemetry{Energy: 100}, 0)
	m.Observe(physics.Telemetry{Energy: 300}, 0)
	if got := m.Value(); math.Abs(got-200) > 1e-9 {
		t.Errorf("expected mean energy 200, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestPeakEnergy(t *testing.T) {
	m := NewPeakEnergy()
	for _, e := range []float64{5, 50, 20} {
		m.Observe(physics.Telemetry{Energy: e}, 0)
	}
	if m.Value() != 50 {
		t.Errorf("expected peak 50, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero peak after reset")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(layout.DefaultRings)
	if m.Value() != 1 {
		t.Error("empty stability should be 1")
	}

	tests := []struct {
		name string
		tm   physics.Telemetry
	}{
		{"inside", physics.Telemetry{R: 300}},
		{"beyond edge", physics.Telemetry{R: 400}},
		{"nan", physics.Telemetry{R: 300, W: math.NaN()}},
		{"on pocket ring", physics.Telemetry{R: 210}},
	}
	for _, tt := range tests {
		m.Observe(tt.tm, 0)
	}
	if got := m.Value(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected stability 0.5, got %f", got)
	}
}

func TestRotorSlip(t *testing.T) {
	m := NewRotorSlip()
	m.Observe(physics.Telemetry{Rolling: true, W: 3, WheelW: 1}, 0)
	m.Observe(physics.Telemetry{Rolling: true, W: -1, WheelW: 1}, 0)
	m.Observe(physics.Telemetry{Rolling: false, W: 0, WheelW: 1}, 0)

	if got := m.Value(); math.Abs(got-2) > 1e-9 {
		t.Errorf("expected slip 2, got %f", got)
	}
}

func TestSpeedDecay(t *testing.T) {
	m := NewSpeedDecay()
	for _, w := range []float64{10, 9, 9.5, 8} {
		m.Observe(physics.Telemetry{Rolling: true, W: w}, 0)
	}
	// The band sample breaks the chain: the jump from 1 to 7 is not a window.
	m.Observe(physics.Telemetry{Rolling: true, W: 1, InPocketBand: true}, 0)
	m.Observe(physics.Telemetry{Rolling: true, W: 7}, 0)

	if got := m.Value(); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("expected 2/3, got %f", got)
	}

	m.Reset()
	if m.Value() != 1 {
		t.Error("expected 1 after reset")
	}
}

func TestMetricsOnRealSpin(t *testing.T) {
	eng, err := physics.New(layout.DefaultEuropean(), config.DefaultConfig(), physics.WithSeed(31))
	if err != nil {
		t.Fatal(err)
	}

	s := sim.New()
	s.AddMetric(NewKineticEnergy())
	s.AddMetric(NewPeakEnergy())
	s.AddMetric(NewStability(eng.Layout().Rings))
	s.AddMetric(NewRotorSlip())

	result, err := s.Run(context.Background(), eng, sim.RunConfig{Randomize: true})
	if err != nil {
		t.Fatal(err)
	}

	if result.Metrics["stability"] != 1 {
		t.Errorf("ball left the rings: stability %f", result.Metrics["stability"])
	}
	if result.Metrics["peak_energy"] < result.Metrics["kinetic_energy"] {
		t.Error("peak energy below mean energy")
	}
	if result.Metrics["rotor_slip"] <= 0 {
		t.Error("expected non-zero rotor slip during the spin")
	}
}
