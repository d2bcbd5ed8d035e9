package physics

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// Telemetry is a read-only snapshot of an engine, suitable for sampling,
// rendering and assertions.
type Telemetry struct {
	R, Theta float64
	RV, W    float64
	Z, VZ    float64

	RotorDeg float64
	WheelW   float64
	Tilt     float64
	Rel      float64 // ball angle in the rotor frame
	Energy   float64

	Rolling   bool
	HasResult bool
	Result    int
	Pocket    int // nearest pocket index, or the captured one
	Offset    float64

	InPocketBand bool
	InMid        bool

	Ticks    int
	SubSteps int
	Forced   bool
}

// Vector layout of Telemetry.Vector.
const (
	IdxR = iota
	IdxTheta
	IdxRV
	IdxW
	IdxZ
	IdxVZ
	IdxRotor
	IdxWheelW
	IdxTilt
	IdxEnergy
	VectorLen
)

var VectorLabels = [VectorLen]string{"r", "theta", "rv", "w", "z", "vz", "rotor_deg", "wheel_w", "tilt", "energy"}

func (e *Engine) Telemetry() Telemetry {
	t := e.tune.Load()
	idx, d0 := e.pocketOffset()
	if e.hasResult {
		idx = e.pocket
	}
	return Telemetry{
		R:            e.r,
		Theta:        e.theta,
		RV:           e.rV,
		W:            e.w,
		Z:            e.z,
		VZ:           e.vz,
		RotorDeg:     e.rotorDeg,
		WheelW:       e.wheelW,
		Tilt:         e.tilt,
		Rel:          e.rel(),
		Energy:       e.Energy(),
		Rolling:      e.rolling,
		HasResult:    e.hasResult,
		Result:       e.ResultNumber(),
		Pocket:       idx,
		Offset:       d0,
		InPocketBand: e.inPocketBand(t),
		InMid:        e.inMid(t, d0),
		Ticks:        e.ticks,
		SubSteps:     e.subSteps,
		Forced:       e.forced,
	}
}

// Vector flattens the continuous part of the telemetry into a state vector.
func (tm Telemetry) Vector() dynamo.State {
	s := make(dynamo.State, VectorLen)
	s[IdxR] = tm.R
	s[IdxTheta] = tm.Theta
	s[IdxRV] = tm.RV
	s[IdxW] = tm.W
	s[IdxZ] = tm.Z
	s[IdxVZ] = tm.VZ
	s[IdxRotor] = tm.RotorDeg
	s[IdxWheelW] = tm.WheelW
	s[IdxTilt] = tm.Tilt
	s[IdxEnergy] = tm.Energy
	return s
}

// RelSpeed is the ball's angular speed relative to the rotor.
func (tm Telemetry) RelSpeed() float64 {
	return math.Abs(tm.W - tm.WheelW)
}
