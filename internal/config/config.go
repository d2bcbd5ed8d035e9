package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

const (
	DefaultTickDt      = 1.0 / 60
	DefaultSubSteps    = 8
	DefaultMaxSubSteps = 150000

	// MaxJitterDeg bounds the capture jitter for any layout. Engines clamp it
	// further to the mid band of the wheel they run on.
	MaxJitterDeg = 1.0
)

// Config is the flat set of physical tuning constants. Units are world units
// (layout pixels), seconds and radians unless a field says degrees.
type Config struct {
	// integration
	TickDt           float64 `yaml:"tick_dt"`
	SubSteps         int     `yaml:"sub_steps"`
	NearPocketR      float64 `yaml:"near_pocket_r"`
	NearPocketRefine int     `yaml:"near_pocket_refine"`
	MaxSubSteps      int     `yaml:"max_sub_steps"`
	SpeedScale       float64 `yaml:"speed_scale"`

	// launch, deg/s for angular speeds
	RotorFixed    bool    `yaml:"rotor_fixed"`
	RotorFixedDeg float64 `yaml:"rotor_fixed_deg"`
	RotorMinDeg   float64 `yaml:"rotor_min_deg"`
	RotorMaxDeg   float64 `yaml:"rotor_max_deg"`
	RotorFriction float64 `yaml:"rotor_friction"`
	BallMinDeg    float64 `yaml:"ball_min_deg"`
	BallMaxDeg    float64 `yaml:"ball_max_deg"`
	RVBase        float64 `yaml:"rv_base"`
	RVRange       float64 `yaml:"rv_range"`

	// angular friction
	BaseFriction   float64 `yaml:"base_friction"`
	AirResistance  float64 `yaml:"air_resistance"`
	LoadFriction   float64 `yaml:"load_friction"`
	LinearDrag     float64 `yaml:"linear_drag"`
	QuadDrag       float64 `yaml:"quad_drag"`
	SlipDrag       float64 `yaml:"slip_drag"`
	CouplingStartR float64 `yaml:"coupling_start_r"` // 0: cone outer ring
	CouplingFullR  float64 `yaml:"coupling_full_r"`  // 0: pocket ring
	CouplingMax    float64 `yaml:"coupling_max"`

	// radial forces
	Gravity       float64 `yaml:"gravity"`
	TrackSlopeDeg float64 `yaml:"track_slope_deg"`
	ConeSlopeDeg  float64 `yaml:"cone_slope_deg"`
	BowlK         float64 `yaml:"bowl_k"`
	RadialDamping float64 `yaml:"radial_damping"`
	TractionGain  float64 `yaml:"traction_gain"`

	// table edge
	BallRadius      float64 `yaml:"ball_radius"`
	ZGrow           float64 `yaml:"z_grow"`
	EdgeRestitution float64 `yaml:"edge_restitution"`
	EdgeFriction    float64 `yaml:"edge_friction"`

	// ring walls
	OuterWallRestitution float64 `yaml:"outer_wall_restitution"`
	OuterWallFriction    float64 `yaml:"outer_wall_friction"`
	InnerWallRestitution float64 `yaml:"inner_wall_restitution"`
	InnerWallFriction    float64 `yaml:"inner_wall_friction"`
	WallJump             float64 `yaml:"wall_jump"`
	LipHeight            float64 `yaml:"lip_height"`

	// pocket band and mid-section
	PocketBand      float64 `yaml:"pocket_band"`
	MidBand         float64 `yaml:"mid_band"`
	MidFrac         float64 `yaml:"mid_frac"`
	GrooveK         float64 `yaml:"groove_k"`
	GrooveNeighbors int     `yaml:"groove_neighbors"`
	Stickiness      float64 `yaml:"stickiness"`
	MidBias         float64 `yaml:"mid_bias"`
	MidDrag         float64 `yaml:"mid_drag"`
	SideRestitution float64 `yaml:"side_restitution"`
	SideFriction    float64 `yaml:"side_friction"`
	WallFrac        float64 `yaml:"wall_frac"`
	JumpOverW       float64 `yaml:"jump_over_w"`
	JumpOverZ       float64 `yaml:"jump_over_z"`
	EdgeBump        float64 `yaml:"edge_bump"`
	EdgeZone        float64 `yaml:"edge_zone"`
	SettleW         float64 `yaml:"settle_w"`
	SettleRate      float64 `yaml:"settle_rate"`

	// vertical bounce
	GravityZ         float64 `yaml:"gravity_z"`
	ZDrag            float64 `yaml:"z_drag"`
	FloorRestitution float64 `yaml:"floor_restitution"`
	MinBounce        float64 `yaml:"min_bounce"`

	// stopping
	StopRadialTol     float64 `yaml:"stop_radial_tol"`
	StopMaxW          float64 `yaml:"stop_max_w"`
	StopRelW          float64 `yaml:"stop_rel_w"`
	StopMaxRV         float64 `yaml:"stop_max_rv"`
	StopEnergy        float64 `yaml:"stop_energy"`
	RequireMidForStop bool    `yaml:"require_mid_for_stop"`
	FreezeW           float64 `yaml:"freeze_w"`
	FreezeRV          float64 `yaml:"freeze_rv"`
	JitterDeg         float64 `yaml:"jitter_deg"`

	// tilt noise
	TiltTau   float64 `yaml:"tilt_tau"`
	TiltSigma float64 `yaml:"tilt_sigma"`
}

func DefaultConfig() *Config {
	return &Config{
		TickDt:           DefaultTickDt,
		SubSteps:         DefaultSubSteps,
		NearPocketR:      26,
		NearPocketRefine: 4,
		MaxSubSteps:      DefaultMaxSubSteps,
		SpeedScale:       1.0,

		RotorFixedDeg: 25,
		RotorMinDeg:   15,
		RotorMaxDeg:   35,
		RotorFriction: 0.02,
		BallMinDeg:    420,
		BallMaxDeg:    620,
		RVBase:        20,
		RVRange:       30,

		BaseFriction:  0.12,
		AirResistance: 0.04,
		LoadFriction:  2e-6,
		LinearDrag:    0.02,
		QuadDrag:      0.004,
		SlipDrag:      0.06,
		CouplingMax:   1.0,

		Gravity:       2500,
		TrackSlopeDeg: 25,
		ConeSlopeDeg:  14,
		BowlK:         6,
		RadialDamping: 2.5,
		TractionGain:  0.8,

		BallRadius:      8,
		ZGrow:           0.5,
		EdgeRestitution: 0.35,
		EdgeFriction:    0.02,

		OuterWallRestitution: 0.45,
		OuterWallFriction:    0.03,
		InnerWallRestitution: 0.30,
		InnerWallFriction:    0.05,
		WallJump:             0.5,
		LipHeight:            4,

		PocketBand:      22,
		MidBand:         10,
		MidFrac:         0.6,
		GrooveK:         30,
		GrooveNeighbors: 3,
		Stickiness:      2.0,
		MidBias:         1.2,
		MidDrag:         1.5,
		SideRestitution: 0.45,
		SideFriction:    0.1,
		WallFrac:        0.92,
		JumpOverW:       1.5,
		JumpOverZ:       3.0,
		EdgeBump:        2.0,
		EdgeZone:        0.75,
		SettleW:         0.08,
		SettleRate:      0.06,

		GravityZ:         600,
		ZDrag:            0.5,
		FloorRestitution: 0.3,
		MinBounce:        5,

		StopRadialTol:     6,
		StopMaxW:          1.2,
		StopRelW:          0.02,
		StopMaxRV:         4,
		StopEnergy:        60000,
		RequireMidForStop: true,
		FreezeW:           0.03,
		FreezeRV:          6,
		JitterDeg:         0.175,

		TiltTau:   2.5,
		TiltSigma: 0.015,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes c as yaml in the same shape Load reads.
func (c *Config) Marshal() ([]byte, error) { return yaml.Marshal(c) }

func Save(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the integrator cannot run.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrInvalidConfig}, args...)...)
	}
	if !(c.TickDt > 0) {
		return bad("tick_dt must be positive, got %v", c.TickDt)
	}
	if c.SubSteps < 1 {
		return bad("sub_steps must be >= 1, got %d", c.SubSteps)
	}
	if c.NearPocketRefine < 1 {
		return bad("near_pocket_refine must be >= 1, got %d", c.NearPocketRefine)
	}
	if c.MaxSubSteps < 1 {
		return bad("max_sub_steps must be >= 1, got %d", c.MaxSubSteps)
	}
	if !(c.SpeedScale > 0) {
		return bad("speed_scale must be positive, got %v", c.SpeedScale)
	}
	if c.RotorMinDeg > c.RotorMaxDeg {
		return bad("rotor_min_deg %v above rotor_max_deg %v", c.RotorMinDeg, c.RotorMaxDeg)
	}
	if c.BallMinDeg > c.BallMaxDeg {
		return bad("ball_min_deg %v above ball_max_deg %v", c.BallMinDeg, c.BallMaxDeg)
	}
	for name, v := range map[string]float64{
		"edge_restitution":       c.EdgeRestitution,
		"outer_wall_restitution": c.OuterWallRestitution,
		"inner_wall_restitution": c.InnerWallRestitution,
		"side_restitution":       c.SideRestitution,
		"floor_restitution":      c.FloorRestitution,
		"edge_friction":          c.EdgeFriction,
		"outer_wall_friction":    c.OuterWallFriction,
		"inner_wall_friction":    c.InnerWallFriction,
		"side_friction":          c.SideFriction,
		"coupling_max":           c.CouplingMax,
	} {
		if v < 0 || v > 1 {
			return bad("%s must be in [0, 1], got %v", name, v)
		}
	}
	if !(c.MidFrac > 0 && c.MidFrac <= 1) {
		return bad("mid_frac must be in (0, 1], got %v", c.MidFrac)
	}
	if !(c.WallFrac >= c.MidFrac && c.WallFrac <= 1) {
		return bad("wall_frac must be in [mid_frac, 1], got %v", c.WallFrac)
	}
	if c.GrooveNeighbors < 1 {
		return bad("groove_neighbors must be >= 1, got %d", c.GrooveNeighbors)
	}
	if !(c.TiltTau > 0) {
		return bad("tilt_tau must be positive, got %v", c.TiltTau)
	}
	if c.TiltSigma < 0 {
		return bad("tilt_sigma must be non-negative, got %v", c.TiltSigma)
	}
	if c.TrackSlopeDeg < 0 || c.TrackSlopeDeg >= 90 || c.ConeSlopeDeg < 0 || c.ConeSlopeDeg >= 90 {
		return bad("slope angles must be in [0, 90)")
	}
	if !(c.JitterDeg >= 0 && c.JitterDeg < MaxJitterDeg) {
		return bad("jitter_deg must be in [0, %v), got %v", MaxJitterDeg, c.JitterDeg)
	}
	if c.StopRadialTol <= 0 {
		return bad("stop_radial_tol must be positive, got %v", c.StopRadialTol)
	}
	for _, v := range c.floatParams() {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return bad("non-finite parameter")
		}
	}
	return nil
}
