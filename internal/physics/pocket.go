package physics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

func (e *Engine) inPocketBand(t *tuning) bool {
	return math.Abs(e.r-e.layout.PocketR) < t.PocketBand
}

// proximity is 1 on the pocket ring falling to 0 at the band edge.
func (e *Engine) proximity(t *tuning) float64 {
	return dynamo.Clamp(1-math.Abs(e.r-e.layout.PocketR)/t.PocketBand, 0, 1)
}

// pocketOffset returns the nearest pocket and the signed rotor-relative
// angle from its centre.
func (e *Engine) pocketOffset() (int, float64) {
	rel := e.rel()
	idx := e.layout.Nearest(rel)
	if idx < 0 {
		return -1, 0
	}
	return idx, dynamo.AngleDelta(rel, e.layout.Pockets[idx].Center)
}

func (e *Engine) inMid(t *tuning, d0 float64) bool {
	return math.Abs(d0) <= t.midHalf && math.Abs(e.r-e.layout.PocketR) <= t.MidBand
}

// groove pulls the ball toward the nearby pocket centres with a Gaussian
// well per pocket, then damps it against the rotor. Outside the mid band a
// constant bias adds to the pull.
func (e *Engine) groove(t *tuning, h float64) {
	prox := e.proximity(t)
	rel := e.rel()

	e.nbuf = e.layout.Neighbors(rel, t.GrooveNeighbors, e.nbuf[:0])
	if len(e.nbuf) == 0 {
		return
	}

	half2 := t.half * t.half
	acc := 0.0
	for _, i := range e.nbuf {
		d := dynamo.AngleDelta(rel, e.layout.Pockets[i].Center)
		acc -= t.GrooveK * d * math.Exp(-d*d/half2)
	}
	acc *= prox

	d0 := dynamo.AngleDelta(rel, e.layout.Pockets[e.nbuf[0]].Center)
	if !e.inMid(t, d0) {
		acc -= t.MidBias * dynamo.Sign(d0) * prox
	}

	e.w += acc * h
	e.w -= t.Stickiness * prox * (e.w - e.wheelW) * h
}

// midRelief handles the pocket's own walls: drag in the middle, bumps near
// the edges, elastic side walls the ball can hop over when fast or high,
// and a slow settle away from the separators.
func (e *Engine) midRelief(t *tuning, h float64) {
	if math.Abs(e.r-e.layout.PocketR) > t.MidBand {
		return
	}
	idx, d0 := e.pocketOffset()
	if idx < 0 {
		return
	}

	u := e.w - e.wheelW
	ad := math.Abs(d0)

	if ad <= t.midHalf {
		u -= t.MidDrag * u * h
	}
	if ad > t.edgeHalf {
		u -= t.EdgeBump * dynamo.Sign(d0) * h
	}

	jumping := math.Abs(u) > t.JumpOverW || e.z > t.JumpOverZ
	next := d0 + u*h
	if !jumping && math.Abs(next) > t.wallHalf && dynamo.Sign(next) == dynamo.Sign(u) {
		u = -u * t.SideRestitution
		e.rV *= 1 - t.SideFriction
		if ad > t.wallHalf {
			seat := e.layout.Pockets[idx].Center + dynamo.Sign(d0)*t.wallHalf
			e.theta = dynamo.WrapAngle(e.rotorRad() + seat)
			d0 = dynamo.Sign(d0) * t.wallHalf
			ad = t.wallHalf
		}
	}

	if math.Abs(u) < t.SettleW && ad > t.midHalf {
		e.theta = dynamo.WrapAngle(e.theta - dynamo.Sign(d0)*t.SettleRate*h)
	}

	e.w = e.wheelW + u
}
