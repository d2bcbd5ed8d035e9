package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// floatParams maps parameter names to the float fields they address.
func (c *Config) floatParams() map[string]*float64 {
	return map[string]*float64{
		"tick_dt":                &c.TickDt,
		"near_pocket_r":          &c.NearPocketR,
		"speed_scale":            &c.SpeedScale,
		"rotor_fixed_deg":        &c.RotorFixedDeg,
		"rotor_min_deg":          &c.RotorMinDeg,
		"rotor_max_deg":          &c.RotorMaxDeg,
		"rotor_friction":         &c.RotorFriction,
		"ball_min_deg":           &c.BallMinDeg,
		"ball_max_deg":           &c.BallMaxDeg,
		"rv_base":                &c.RVBase,
		"rv_range":               &c.RVRange,
		"base_friction":          &c.BaseFriction,
		"air_resistance":         &c.AirResistance,
		"load_friction":          &c.LoadFriction,
		"linear_drag":            &c.LinearDrag,
		"quad_drag":              &c.QuadDrag,
		"slip_drag":              &c.SlipDrag,
		"coupling_start_r":       &c.CouplingStartR,
		"coupling_full_r":        &c.CouplingFullR,
		"coupling_max":           &c.CouplingMax,
		"gravity":                &c.Gravity,
		"track_slope_deg":        &c.TrackSlopeDeg,
		"cone_slope_deg":         &c.ConeSlopeDeg,
		"bowl_k":                 &c.BowlK,
		"radial_damping":         &c.RadialDamping,
		"traction_gain":          &c.TractionGain,
		"ball_radius":            &c.BallRadius,
		"z_grow":                 &c.ZGrow,
		"edge_restitution":       &c.EdgeRestitution,
		"edge_friction":          &c.EdgeFriction,
		"outer_wall_restitution": &c.OuterWallRestitution,
		"outer_wall_friction":    &c.OuterWallFriction,
		"inner_wall_restitution": &c.InnerWallRestitution,
		"inner_wall_friction":    &c.InnerWallFriction,
		"wall_jump":              &c.WallJump,
		"lip_height":             &c.LipHeight,
		"pocket_band":            &c.PocketBand,
		"mid_band":               &c.MidBand,
		"mid_frac":               &c.MidFrac,
		"groove_k":               &c.GrooveK,
		"stickiness":             &c.Stickiness,
		"mid_bias":               &c.MidBias,
		"mid_drag":               &c.MidDrag,
		"side_restitution":       &c.SideRestitution,
		"side_friction":          &c.SideFriction,
		"wall_frac":              &c.WallFrac,
		"jump_over_w":            &c.JumpOverW,
		"jump_over_z":            &c.JumpOverZ,
		"edge_bump":              &c.EdgeBump,
		"edge_zone":              &c.EdgeZone,
		"settle_w":               &c.SettleW,
		"settle_rate":            &c.SettleRate,
		"gravity_z":              &c.GravityZ,
		"z_drag":                 &c.ZDrag,
		"floor_restitution":      &c.FloorRestitution,
		"min_bounce":             &c.MinBounce,
		"stop_radial_tol":        &c.StopRadialTol,
		"stop_max_w":             &c.StopMaxW,
		"stop_rel_w":             &c.StopRelW,
		"stop_max_rv":            &c.StopMaxRV,
		"stop_energy":            &c.StopEnergy,
		"freeze_w":               &c.FreezeW,
		"freeze_rv":              &c.FreezeRV,
		"jitter_deg":             &c.JitterDeg,
		"tilt_tau":               &c.TiltTau,
		"tilt_sigma":             &c.TiltSigma,
	}
}

// GetParams returns every tunable as a float, integer and boolean fields included.
func (c *Config) GetParams() map[string]float64 {
	out := make(map[string]float64)
	for name, p := range c.floatParams() {
		out[name] = *p
	}
	out["sub_steps"] = float64(c.SubSteps)
	out["near_pocket_refine"] = float64(c.NearPocketRefine)
	out["max_sub_steps"] = float64(c.MaxSubSteps)
	out["groove_neighbors"] = float64(c.GrooveNeighbors)
	out["rotor_fixed"] = boolParam(c.RotorFixed)
	out["require_mid_for_stop"] = boolParam(c.RequireMidForStop)
	return out
}

// ParamNames lists tunable names in sorted order.
func (c *Config) ParamNames() []string {
	params := c.GetParams()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam sets one tunable by name. Integer fields are rounded; boolean
// fields treat any non-zero value as true.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "sub_steps":
		c.SubSteps = int(math.Round(value))
	case "near_pocket_refine":
		c.NearPocketRefine = int(math.Round(value))
	case "max_sub_steps":
		c.MaxSubSteps = int(math.Round(value))
	case "groove_neighbors":
		c.GrooveNeighbors = int(math.Round(value))
	case "rotor_fixed":
		c.RotorFixed = value != 0
	case "require_mid_for_stop":
		c.RequireMidForStop = value != 0
	default:
		p, ok := c.floatParams()[name]
		if !ok {
			return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
		}
		*p = value
	}
	return nil
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
