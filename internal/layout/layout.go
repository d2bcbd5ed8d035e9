// Package layout describes the static geometry of a roulette wheel.
//
// A [Layout] is loaded once and shared read-only by every engine. All angles
// stored on a loaded layout are radians in the canonical frame:
// counter-clockwise, zero at the positive x axis, measured relative to the
// rotor (pockets turn with the rotor).
package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// Rings holds the six concentric radii, outermost first.
type Rings struct {
	OuterR      float64 `yaml:"outer"`
	TrackOuterR float64 `yaml:"track_outer"`
	TrackInnerR float64 `yaml:"track_inner"`
	ConeOuterR  float64 `yaml:"cone_outer"`
	ConeInnerR  float64 `yaml:"cone_inner"`
	HubR        float64 `yaml:"hub"`
}

// Convention describes how angles in a layout file are measured.
type Convention struct {
	Clockwise bool    `yaml:"clockwise"`
	OffsetDeg float64 `yaml:"offset_deg"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Pocket is one numbered wedge on the rotor.
type Pocket struct {
	Index    int
	Number   int
	Center   float64
	Start    float64
	End      float64
	Centroid Point
	Polygon  []Point
}

type Layout struct {
	CX, CY     float64
	Rings      Rings
	PocketR    float64
	Pockets    []Pocket
	Separators []float64
	Convention Convention

	centers   []float64 // sorted pocket centres
	centerIdx []int     // pocket index for each entry of centers
}

// New validates the geometry, fills derived tables and returns the layout.
// Pocket angles are expected already in the canonical frame.
func New(cx, cy float64, rings Rings, pocketR float64, pockets []Pocket) (*Layout, error) {
	l := &Layout{
		CX:      cx,
		CY:      cy,
		Rings:   rings,
		PocketR: pocketR,
		Pockets: pockets,
	}
	if err := l.finish(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Layout) finish() error {
	if err := l.Validate(); err != nil {
		return err
	}

	for i := range l.Pockets {
		p := &l.Pockets[i]
		p.Index = i
		p.Center = dynamo.WrapAngle(p.Center)
		p.Start = dynamo.WrapAngle(p.Start)
		p.End = dynamo.WrapAngle(p.End)
	}

	if l.PocketR <= 0 {
		l.PocketR = l.derivePocketR()
	}

	l.centers = make([]float64, len(l.Pockets))
	l.centerIdx = make([]int, len(l.Pockets))
	order := make([]int, len(l.Pockets))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return l.Pockets[order[a]].Center < l.Pockets[order[b]].Center
	})
	for i, idx := range order {
		l.centers[i] = l.Pockets[idx].Center
		l.centerIdx[i] = idx
	}

	l.Separators = l.Separators[:0]
	for _, idx := range order {
		l.Separators = append(l.Separators, l.Pockets[idx].Start)
	}
	return nil
}

// Validate reports construction errors. There is no degraded mode.
func (l *Layout) Validate() error {
	r := l.Rings
	radii := []struct {
		name string
		v    float64
	}{
		{"outer", r.OuterR},
		{"track_outer", r.TrackOuterR},
		{"track_inner", r.TrackInnerR},
		{"cone_outer", r.ConeOuterR},
		{"cone_inner", r.ConeInnerR},
		{"hub", r.HubR},
	}
	for i, rr := range radii {
		if rr.v <= 0 || math.IsNaN(rr.v) || math.IsInf(rr.v, 0) {
			return fmt.Errorf("%w: ring %q missing or non-positive (%v)", dynamo.ErrInvalidLayout, rr.name, rr.v)
		}
		if i > 0 && rr.v > radii[i-1].v {
			return fmt.Errorf("%w: ring %q (%v) lies outside %q (%v)", dynamo.ErrInvalidLayout, rr.name, rr.v, radii[i-1].name, radii[i-1].v)
		}
	}
	if r.ConeInnerR >= r.OuterR {
		return fmt.Errorf("%w: cone_inner must be inside outer", dynamo.ErrInvalidLayout)
	}
	if len(l.Pockets) == 0 {
		return fmt.Errorf("%w: no pockets", dynamo.ErrInvalidLayout)
	}
	seen := make(map[int]bool, len(l.Pockets))
	for i, p := range l.Pockets {
		if seen[p.Number] {
			return fmt.Errorf("%w: pocket %d repeats number %d", dynamo.ErrInvalidLayout, i, p.Number)
		}
		seen[p.Number] = true
	}
	if l.PocketR != 0 && (l.PocketR < r.ConeInnerR || l.PocketR > r.ConeOuterR) {
		return fmt.Errorf("%w: pocket ring %v outside cone band [%v, %v]", dynamo.ErrInvalidLayout, l.PocketR, r.ConeInnerR, r.ConeOuterR)
	}
	return nil
}

func (l *Layout) derivePocketR() float64 {
	lo, hi := l.Rings.ConeInnerR, l.Rings.ConeOuterR
	sum, n := 0.0, 0
	for _, p := range l.Pockets {
		if p.Centroid.X == 0 && p.Centroid.Y == 0 {
			continue
		}
		d := math.Hypot(p.Centroid.X-l.CX, p.Centroid.Y-l.CY)
		if d >= lo && d <= hi {
			sum += d
			n++
		}
	}
	if n > 0 {
		return sum / float64(n)
	}
	return 0.5 * (lo + hi)
}

// PocketHalfWidth is half the mean angular pitch between pockets.
func (l *Layout) PocketHalfWidth() float64 {
	return math.Pi / float64(len(l.Pockets))
}

// Number returns the pocket number at index i.
func (l *Layout) Number(i int) int {
	return l.Pockets[i].Number
}

// Numbers lists pocket numbers in layout order.
func (l *Layout) Numbers() []int {
	out := make([]int, len(l.Pockets))
	for i, p := range l.Pockets {
		out[i] = p.Number
	}
	return out
}
