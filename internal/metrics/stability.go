package metrics

import (
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
)

// Stability is the fraction of samples with a finite state and the ball
// inside the wheel's rings.
type Stability struct {
	name       string
	minR, maxR float64
	violations int
	samples    int
}

func NewStability(rings layout.Rings) *Stability {
	return &Stability{
		name: "stability",
		minR: rings.ConeInnerR,
		maxR: rings.OuterR,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(tm physics.Telemetry, t float64) {
	s.samples++
	if !tm.Vector().IsValid() || tm.R < s.minR || tm.R > s.maxR {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
