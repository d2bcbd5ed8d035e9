package physics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// surfaceW is the angular speed of whatever the ball rolls on: zero on the
// fixed track, ramping to the rotor speed across the coupling band.
func (e *Engine) surfaceW(t *tuning) float64 {
	c := t.CouplingMax * dynamo.Smoothstep(t.couplingStart, t.couplingFull, e.r)
	return c * e.wheelW
}

// decayToward reduces |v| by dv without crossing zero.
func decayToward(v, dv float64) float64 {
	if dv >= math.Abs(v) {
		return 0
	}
	return v - dynamo.Sign(v)*dv
}

// angularDecay applies base friction, air resistance, load-dependent
// friction, viscous drag and slip drag to the ball's speed relative to the
// surface under it, then adds the tilt bias.
func (e *Engine) angularDecay(t *tuning, h float64) {
	ws := e.surfaceW(t)
	u := e.w - ws
	sp := math.Abs(u)

	load := t.LoadFriction * e.w * e.w * e.r
	dec := t.BaseFriction + t.AirResistance*sp + load + t.LinearDrag*sp + t.QuadDrag*sp*sp
	u = decayToward(u, dec*h)
	u -= t.SlipDrag * u * h

	e.w = ws + u + e.tilt*h
}

// radialAccel sums centrifugal, bowl, slope and traction terms.
func (e *Engine) radialAccel(t *tuning) float64 {
	rings := e.layout.Rings
	p := e.layout.PocketR

	cent := e.w * e.w * e.r
	a := cent - t.BowlK*(e.r-p)

	switch {
	case e.r >= rings.TrackInnerR:
		a -= t.SlopeTrack
		if cent < t.NeedTrack {
			a -= t.TractionGain * (t.NeedTrack - cent)
		}
	case e.r > p:
		a -= t.SlopeCone
		if cent < t.NeedCone {
			a -= t.TractionGain * (t.NeedCone - cent)
		}
	}

	return a - t.RadialDamping*e.rV
}

// wallFriction removes tangential speed on an impact of normal speed vn,
// Coulomb style, without reversing the ball relative to the surface.
func (e *Engine) wallFriction(t *tuning, mu, restitution, vn float64) {
	if mu == 0 || e.r <= 0 {
		return
	}
	ws := e.surfaceW(t)
	u := e.w - ws
	u = decayToward(u, mu*(1+restitution)*math.Abs(vn)/e.r)
	e.w = ws + u
}
