package physics

import (
	"fmt"
	"io"
	"log"
	"math"
	"sync/atomic"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/layout"
)

// tuning pairs a config snapshot with the layout-dependent values derived
// from it. It is replaced wholesale, never mutated.
type tuning struct {
	*config.Snapshot

	half     float64 // pocket half pitch
	midHalf  float64 // mid-section angular half width
	wallHalf float64 // side walls
	edgeHalf float64 // where edge bumps begin
	jitter   float64 // capture jitter, kept inside the mid band

	couplingStart float64
	couplingFull  float64
}

func newTuning(l *layout.Layout, snap *config.Snapshot) *tuning {
	t := &tuning{Snapshot: snap}
	t.half = l.PocketHalfWidth()
	t.midHalf = snap.MidFrac * t.half
	t.wallHalf = snap.WallFrac * t.half
	t.edgeHalf = snap.EdgeZone * t.wallHalf
	t.jitter = min(snap.JitterRad, 0.5*t.midHalf)

	t.couplingStart = snap.CouplingStartR
	if t.couplingStart <= 0 {
		t.couplingStart = l.Rings.ConeOuterR
	}
	t.couplingFull = snap.CouplingFullR
	if t.couplingFull <= 0 {
		t.couplingFull = l.PocketR + snap.PocketBand
		if t.couplingFull >= t.couplingStart {
			t.couplingFull = l.PocketR
		}
	}
	return t
}

type Option func(*Engine)

// WithSeed makes every draw reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.src = dynamo.NewSeededSource(seed) }
}

// WithSource injects a custom random source.
func WithSource(src dynamo.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithLogger routes anomaly reports. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

type Engine struct {
	layout *layout.Layout
	tune   atomic.Pointer[tuning]
	src    dynamo.Source
	gauss  gaussian
	log    *log.Logger

	r, theta float64
	rV, w    float64
	z, vz    float64

	rotorDeg float64
	wheelW   float64
	tilt     float64

	rolling   bool
	hasResult bool
	result    int
	pocket    int
	seat      float64 // rotor-relative angle of a captured ball

	ticks    int
	subSteps int
	forced   bool

	nbuf []int
}

// New builds an engine for one wheel. A nil cfg means DefaultConfig.
func New(l *layout.Layout, cfg *config.Config, opts ...Option) (*Engine, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil layout", dynamo.ErrInvalidLayout)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	e := &Engine{layout: l}
	if err := e.SetConfig(*cfg); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = dynamo.NewSource()
	}
	if e.log == nil {
		e.log = log.New(io.Discard, "", 0)
	}
	e.Reset()
	return e, nil
}

// SetConfig validates cfg, recomputes derived values and swaps it in for the
// next Step. The caller keeps ownership of cfg.
func (e *Engine) SetConfig(cfg config.Config) error {
	snap, err := config.NewSnapshot(cfg)
	if err != nil {
		return err
	}
	e.tune.Store(newTuning(e.layout, snap))
	return nil
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() config.Config {
	return e.tune.Load().Config
}

func (e *Engine) Layout() *layout.Layout { return e.layout }

// Launch starts a new spin. Draw order: rotor speed (unless fixed), ball
// speed, ball direction (when randomizeSigns), start angle, inward speed.
func (e *Engine) Launch(randomizeSigns bool) {
	t := e.tune.Load()

	e.rotorDeg = 0
	rotorDeg := t.RotorFixedDeg
	if !t.RotorFixed {
		rotorDeg = dynamo.Uniform(e.src, t.RotorMinDeg, t.RotorMaxDeg)
	}
	e.wheelW = dynamo.Deg2Rad(rotorDeg) * t.SpeedScale

	ball := dynamo.Uniform(e.src, t.BallMinDeg, t.BallMaxDeg)
	sign := 1.0
	if randomizeSigns && e.src.Float64() < 0.5 {
		sign = -1
	}
	e.w = sign * dynamo.Deg2Rad(ball) * t.SpeedScale

	e.theta = dynamo.WrapAngle(dynamo.Deg2Rad(dynamo.Uniform(e.src, 0, 360)))
	e.r = e.layout.Rings.OuterR
	e.rV = -(t.RVBase + dynamo.Uniform(e.src, 0, t.RVRange))

	e.z, e.vz = 0, 0
	e.tilt = 0
	e.gauss.reset()

	e.rolling = true
	e.hasResult = false
	e.result = 0
	e.pocket = -1
	e.ticks, e.subSteps = 0, 0
	e.forced = false
}

// Reset returns the engine to a quiescent, non-rolling state without a
// result. Configuration and random stream are kept.
func (e *Engine) Reset() {
	e.r = e.layout.Rings.OuterR
	e.theta = 0
	e.rV, e.w = 0, 0
	e.z, e.vz = 0, 0
	e.rotorDeg, e.wheelW = 0, 0
	e.tilt = 0
	e.gauss.reset()
	e.rolling = false
	e.hasResult = false
	e.result = 0
	e.pocket = -1
	e.seat = 0
	e.ticks, e.subSteps = 0, 0
	e.forced = false
}

func (e *Engine) Rolling() bool { return e.rolling }

// HasResult reports whether a pocket has been captured since the last launch.
func (e *Engine) HasResult() bool { return e.hasResult }

// ResultNumber is the captured pocket number, or 0 before a result exists.
func (e *Engine) ResultNumber() int {
	if !e.hasResult {
		return 0
	}
	return e.result
}

// Position returns the ball's world-space coordinates.
func (e *Engine) Position() (float64, float64) {
	return e.layout.WorldPoint(e.r, e.theta)
}

// RotorDeg is the rotor angle in [0, 360).
func (e *Engine) RotorDeg() float64 { return e.rotorDeg }

// Step advances one nominal tick. Once the ball is captured the rotor keeps
// turning and carries the seated ball; the ball's own velocities stay zero.
func (e *Engine) Step() {
	t := e.tune.Load()

	if !e.rolling {
		if e.hasResult {
			e.advanceRotor(t, t.TickDt)
			e.theta = dynamo.WrapAngle(e.rotorRad() + e.seat)
		}
		return
	}

	e.ticks++
	base := t.TickDt / float64(t.SubSteps)
	fine := base / float64(t.NearPocketRefine)
	remaining := t.TickDt

	for remaining > 1e-12 && e.rolling {
		h := base
		if math.Abs(e.r-e.layout.PocketR) < t.NearPocketR {
			h = fine
		}
		if h > remaining {
			h = remaining
		}

		e.subStep(t, h)
		remaining -= h
		e.subSteps++

		if e.rolling && e.subSteps >= t.MaxSubSteps {
			e.log.Printf("anomaly: spin exceeded %d sub-steps, forcing stop (r=%.2f w=%.4f rV=%.3f rel=%.4f)",
				t.MaxSubSteps, e.r, e.w, e.rV, e.wheelW-e.w)
			e.forceStop(t)
		}
	}
}

type saved struct {
	r, theta, rV, w, z, vz, tilt float64
}

func (e *Engine) subStep(t *tuning, h float64) {
	prev := saved{e.r, e.theta, e.rV, e.w, e.z, e.vz, e.tilt}

	e.advanceRotor(t, h)
	e.updateTilt(t, h)
	e.angularDecay(t, h)
	aR := e.radialAccel(t)
	e.integrateRadial(t, h, aR)
	e.ringWalls(t, prev.r)

	if e.inPocketBand(t) {
		e.groove(t, h)
		e.midRelief(t, h)
	}

	e.vertical(t, h)
	e.theta = dynamo.WrapAngle(e.theta + e.w*h)

	if !e.finite() {
		e.r, e.theta, e.rV, e.w, e.z, e.vz, e.tilt = prev.r, prev.theta, prev.rV, prev.w, prev.z, prev.vz, prev.tilt
		e.log.Printf("anomaly: non-finite state after sub-step %d, forcing stop", e.subSteps)
		e.forceStop(t)
		return
	}

	e.freeze(t)
	if e.shouldStop(t) {
		e.capture(t)
	}
}

func (e *Engine) finite() bool {
	s := dynamo.State{e.r, e.theta, e.rV, e.w, e.z, e.vz, e.tilt}
	return s.IsValid()
}

func (e *Engine) rotorRad() float64 {
	return dynamo.Deg2Rad(e.rotorDeg)
}

// rel is the ball angle in the rotor frame.
func (e *Engine) rel() float64 {
	return dynamo.WrapAngle(e.theta - e.rotorRad())
}

func (e *Engine) advanceRotor(t *tuning, h float64) {
	e.rotorDeg = dynamo.WrapDeg(e.rotorDeg + dynamo.Rad2Deg(e.wheelW)*h)
	e.wheelW *= math.Exp(-t.RotorFriction * h)
}

// Energy is the ball's specific kinetic energy ½(rV² + (r·w)²).
func (e *Engine) Energy() float64 {
	v := e.r * e.w
	return 0.5 * (e.rV*e.rV + v*v)
}
