package metrics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/physics"
)

// RotorSlip is the mean |w - wheelW| while the ball is rolling.
type RotorSlip struct {
	name    string
	sum     float64
	samples int
}

func NewRotorSlip() *RotorSlip {
	return &RotorSlip{
		name: "rotor_slip",
	}
}

func (c *RotorSlip) Name() string {
	return c.name
}

func (c *RotorSlip) Observe(tm physics.Telemetry, t float64) {
	if !tm.Rolling {
		return
	}
	c.sum += tm.RelSpeed()
	c.samples++
}

func (c *RotorSlip) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *RotorSlip) Reset() {
	c.sum = 0
	c.samples = 0
}

// SpeedDecay is the fraction of consecutive off-band samples in which |w| did
// not grow. Friction dominates outside the pocket band, so a healthy run
// stays close to 1.
type SpeedDecay struct {
	name    string
	prevW   float64
	hasPrev bool
	windows int
	decayed int
}

func NewSpeedDecay() *SpeedDecay {
	return &SpeedDecay{name: "speed_decay"}
}

func (d *SpeedDecay) Name() string { return d.name }

func (d *SpeedDecay) Observe(tm physics.Telemetry, t float64) {
	if !tm.Rolling || tm.InPocketBand {
		d.hasPrev = false
		return
	}
	w := math.Abs(tm.W)
	if d.hasPrev {
		d.windows++
		if w <= d.prevW {
			d.decayed++
		}
	}
	d.prevW, d.hasPrev = w, true
}

func (d *SpeedDecay) Value() float64 {
	if d.windows == 0 {
		return 1
	}
	return float64(d.decayed) / float64(d.windows)
}

func (d *SpeedDecay) Reset() {
	*d = SpeedDecay{name: d.name}
}
