package layout

import (
	"math"
	"sort"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// Normalize converts a file angle in degrees into the canonical CCW radian frame.
func (c Convention) Normalize(deg float64) float64 {
	if c.Clockwise {
		deg = -deg
	}
	return dynamo.WrapAngle(dynamo.Deg2Rad(deg + c.OffsetDeg))
}

// Nearest returns the index of the pocket whose centre is angularly closest
// to rel (rotor-relative, radians). It returns -1 only for a layout without pockets.
func (l *Layout) Nearest(rel float64) int {
	slot := l.nearestSlot(rel)
	if slot < 0 {
		return l.nearestScan(rel)
	}
	return l.centerIdx[slot]
}

// nearestSlot binary-searches the sorted centres and compares the predecessor
// and successor, wrapping at 0/2π.
func (l *Layout) nearestSlot(rel float64) int {
	n := len(l.centers)
	if n == 0 {
		return -1
	}
	a := dynamo.WrapAngle(rel)
	i := sort.SearchFloat64s(l.centers, a)
	succ := i % n
	pred := (i - 1 + n) % n
	if dynamo.AngleDist(a, l.centers[pred]) < dynamo.AngleDist(a, l.centers[succ]) {
		return pred
	}
	return succ
}

func (l *Layout) nearestScan(rel float64) int {
	best, bestD := -1, math.Inf(1)
	for i, p := range l.Pockets {
		if d := dynamo.AngleDist(rel, p.Center); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Neighbors appends to dst the indices of the k pockets around the one
// nearest to rel: the nearest first, then alternating successor/predecessor.
func (l *Layout) Neighbors(rel float64, k int, dst []int) []int {
	n := len(l.centers)
	slot := l.nearestSlot(rel)
	if slot < 0 {
		if i := l.nearestScan(rel); i >= 0 {
			dst = append(dst, i)
		}
		return dst
	}
	if k > n {
		k = n
	}
	dst = append(dst, l.centerIdx[slot])
	got := 1
	// On an even wheel the opposite pocket is reached from both sides; the
	// predecessor walk stops short of it.
	for step := 1; got < k && 2*step <= n; step++ {
		dst = append(dst, l.centerIdx[(slot+step)%n])
		got++
		if got < k && 2*step < n {
			dst = append(dst, l.centerIdx[(slot-step+n)%n])
			got++
		}
	}
	return dst
}

// Containing returns the pocket whose [Start, End) range holds rel, falling
// back to the nearest centre when no range matches.
func (l *Layout) Containing(rel float64) int {
	a := dynamo.WrapAngle(rel)
	for i, p := range l.Pockets {
		span := dynamo.WrapAngle(p.End - p.Start)
		if span == 0 {
			continue
		}
		if dynamo.WrapAngle(a-p.Start) < span {
			return i
		}
	}
	return l.Nearest(a)
}

// PocketAt maps a world-space point to a pocket index given the rotor angle
// in degrees. This is the tap-mapping used by callers to identify a pocket
// under a pointer.
func (l *Layout) PocketAt(x, y, rotorDeg float64) int {
	theta := math.Atan2(y-l.CY, x-l.CX)
	return l.Nearest(theta - dynamo.Deg2Rad(rotorDeg))
}

// WorldPoint converts polar (r, theta) into world coordinates.
func (l *Layout) WorldPoint(r, theta float64) (float64, float64) {
	return l.CX + r*math.Cos(theta), l.CY + r*math.Sin(theta)
}
