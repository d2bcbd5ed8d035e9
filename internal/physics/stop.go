package physics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// freeze kills residual micro-motion once the ball sits in a pocket's
// middle at rotor speed.
func (e *Engine) freeze(t *tuning) {
	if math.Abs(e.r-e.layout.PocketR) >= t.StopRadialTol {
		return
	}
	if math.Abs(e.w-e.wheelW) >= t.FreezeW || math.Abs(e.rV) >= t.FreezeRV {
		return
	}
	if _, d0 := e.pocketOffset(); math.Abs(d0) > t.midHalf {
		return
	}
	e.w = e.wheelW
	e.rV = 0
}

func (e *Engine) shouldStop(t *tuning) bool {
	switch {
	case math.Abs(e.r-e.layout.PocketR) > t.StopRadialTol:
		return false
	case math.Abs(e.w) >= t.StopMaxW:
		return false
	case math.Abs(e.w-e.wheelW) >= t.StopRelW:
		return false
	case math.Abs(e.rV) >= t.StopMaxRV:
		return false
	case e.Energy() >= t.StopEnergy:
		return false
	}
	if t.RequireMidForStop {
		_, d0 := e.pocketOffset()
		return e.inMid(t, d0)
	}
	return true
}

// capture seats the ball at the nearest pocket centre plus a small jitter
// and resolves the winning number from the pocket ranges.
func (e *Engine) capture(t *tuning) {
	l := e.layout
	idx := l.Nearest(e.rel())
	if idx < 0 {
		idx = 0
	}

	jitter := (2*e.src.Float64() - 1) * t.jitter
	e.seat = dynamo.WrapAngle(l.Pockets[idx].Center + jitter)
	e.theta = dynamo.WrapAngle(e.rotorRad() + e.seat)
	e.r = l.PocketR
	e.w, e.rV = 0, 0
	e.z, e.vz = 0, 0

	e.pocket = l.Containing(e.seat)
	e.result = l.Pockets[e.pocket].Number
	e.hasResult = true
	e.rolling = false
}

// forceStop ends a spin that failed to settle, assigning the nearest pocket.
func (e *Engine) forceStop(t *tuning) {
	e.forced = true
	e.capture(t)
}
