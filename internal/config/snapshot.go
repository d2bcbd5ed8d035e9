package config

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// Derived holds values cached from angle-denominated fields.
type Derived struct {
	SinTrack, TanTrack float64
	SinCone, TanCone   float64

	SlopeTrack float64 // g·sin(track slope), inward acceleration on the track
	SlopeCone  float64 // g·sin(cone slope)
	NeedTrack  float64 // g·tan(track slope), centripetal need to hold the track
	NeedCone   float64

	JitterRad float64
}

// Derive recomputes the cached trig values. It is a pure function of cfg
// and must be re-run whenever an angle field changes.
func Derive(cfg Config) Derived {
	tr := dynamo.Deg2Rad(cfg.TrackSlopeDeg)
	co := dynamo.Deg2Rad(cfg.ConeSlopeDeg)
	d := Derived{
		SinTrack:  math.Sin(tr),
		TanTrack:  math.Tan(tr),
		SinCone:   math.Sin(co),
		TanCone:   math.Tan(co),
		JitterRad: dynamo.Deg2Rad(cfg.JitterDeg),
	}
	d.SlopeTrack = cfg.Gravity * d.SinTrack
	d.SlopeCone = cfg.Gravity * d.SinCone
	d.NeedTrack = cfg.Gravity * d.TanTrack
	d.NeedCone = cfg.Gravity * d.TanCone
	return d
}

// Snapshot is an immutable, validated configuration with its derived cache.
// Engines read one snapshot per tick; callers swap in a new one to retune.
type Snapshot struct {
	Config
	Derived
}

func NewSnapshot(cfg Config) (*Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Snapshot{Config: cfg, Derived: Derive(cfg)}, nil
}
