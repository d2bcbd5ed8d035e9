package physics

import "math"

// integrateRadial advances rV and r, then holds the ball inside the table
// edge. The edge is tested with the ball's effective radius, which grows as
// the ball rises.
func (e *Engine) integrateRadial(t *tuning, h, aR float64) {
	e.rV += aR * h
	e.r += e.rV * h

	effR := t.BallRadius + t.ZGrow*e.z
	edge := e.layout.Rings.OuterR - effR
	if e.r > edge {
		e.r = edge
		if e.rV > 0 {
			vn := e.rV
			e.rV = -vn * t.EdgeRestitution
			e.wallFriction(t, t.EdgeFriction, t.EdgeRestitution, vn)
		}
	}
}

// ringWalls resolves the pocket ring's outer rim and the inner hub wall.
// The rim only catches a ball leaving the ring from inside while it is
// lower than the lip; each impact kicks the ball upward.
func (e *Engine) ringWalls(t *tuning, prevR float64) {
	rings := e.layout.Rings

	if prevR <= rings.ConeOuterR && e.r > rings.ConeOuterR && e.z < t.LipHeight && e.rV > 0 {
		vn := e.rV
		e.r = rings.ConeOuterR
		e.rV = -vn * t.OuterWallRestitution
		e.wallFriction(t, t.OuterWallFriction, t.OuterWallRestitution, vn)
		e.vz += t.WallJump * vn
	}

	if e.r < rings.ConeInnerR {
		e.r = rings.ConeInnerR
		if e.rV < 0 {
			vn := -e.rV
			e.rV = vn * t.InnerWallRestitution
			e.wallFriction(t, t.InnerWallFriction, t.InnerWallRestitution, vn)
			e.vz += t.WallJump * vn
		}
	}
}

// vertical integrates the lightweight bounce: gravity, drag and a floor
// with restitution.
func (e *Engine) vertical(t *tuning, h float64) {
	e.vz -= t.GravityZ * h
	e.vz -= t.ZDrag * e.vz * h
	e.z += e.vz * h

	if e.z <= 0 {
		e.z = 0
		if e.vz < 0 {
			e.vz = -e.vz * t.FloorRestitution
			if e.vz < t.MinBounce {
				e.vz = 0
			}
		}
	}
	if math.Abs(e.vz) < 1e-9 && e.z == 0 {
		e.vz = 0
	}
}
