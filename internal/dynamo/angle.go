package dynamo

import "math"

const TwoPi = 2 * math.Pi

// WrapAngle maps any angle in radians into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod can hand back exactly 2π after the correction above for tiny negatives.
	if a >= TwoPi {
		a = 0
	}
	return a
}

// WrapDeg maps any angle in degrees into [0, 360).
func WrapDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// AngleDelta returns the shortest signed rotation from b to a, in (-π, π].
func AngleDelta(a, b float64) float64 {
	d := WrapAngle(a - b)
	if d > math.Pi {
		d -= TwoPi
	}
	return d
}

// AngleDist is |AngleDelta(a, b)|.
func AngleDist(a, b float64) float64 {
	return math.Abs(AngleDelta(a, b))
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }
func Rad2Deg(r float64) float64 { return r * 180 / math.Pi }

// Smoothstep is the cubic Hermite ramp from 0 at edge0 to 1 at edge1.
// Edges may be given in either order.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Sign returns -1, 0 or 1.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
