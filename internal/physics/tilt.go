package physics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// gaussian is a Box-Muller sampler: two uniforms yield two normals, the
// second cached for the next call.
type gaussian struct {
	spare float64
	has   bool
}

func (g *gaussian) reset() {
	g.spare, g.has = 0, false
}

func (g *gaussian) next(src dynamo.Source) float64 {
	if g.has {
		g.has = false
		return g.spare
	}
	u1 := src.Float64()
	u2 := src.Float64()
	if u1 < 1e-300 {
		u1 = 1e-300
	}
	m := math.Sqrt(-2 * math.Log(u1))
	s, c := math.Sincos(dynamo.TwoPi * u2)
	g.spare = m * s
	g.has = true
	return m * c
}

// updateTilt advances the Ornstein-Uhlenbeck tilt: mean reversion at rate
// 1/tau, stationary standard deviation sigma.
func (e *Engine) updateTilt(t *tuning, h float64) {
	if t.TiltSigma == 0 {
		e.tilt -= e.tilt / t.TiltTau * h
		return
	}
	n := e.gauss.next(e.src)
	e.tilt += -e.tilt/t.TiltTau*h + t.TiltSigma*math.Sqrt(2*h/t.TiltTau)*n
}
