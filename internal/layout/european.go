package layout

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// EuropeanOrder is the single-zero wheel sequence, counter-clockwise from zero.
var EuropeanOrder = []int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23, 10,
	5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

// DefaultRings is a wheel drawn at roughly 800x800 world units.
var DefaultRings = Rings{
	OuterR:      380,
	TrackOuterR: 362,
	TrackInnerR: 300,
	ConeOuterR:  250,
	ConeInnerR:  170,
	HubR:        120,
}

// European builds a 37-pocket single-zero layout with pockets spaced at 2π/37,
// pocket zero centred on angle zero.
func European(cx, cy float64, rings Rings) (*Layout, error) {
	return Uniform(cx, cy, rings, EuropeanOrder)
}

// Uniform builds a layout of equally spaced pockets carrying the given numbers.
func Uniform(cx, cy float64, rings Rings, numbers []int) (*Layout, error) {
	n := len(numbers)
	pockets := make([]Pocket, n)
	if n > 0 {
		pitch := dynamo.TwoPi / float64(n)
		half := pitch / 2
		mid := 0.5 * (rings.ConeInnerR + rings.ConeOuterR)
		for i, num := range numbers {
			c := float64(i) * pitch
			s, e := c-half, c+half
			pockets[i] = Pocket{
				Number:   num,
				Center:   c,
				Start:    s,
				End:      e,
				Centroid: Point{X: cx + mid*math.Cos(c), Y: cy + mid*math.Sin(c)},
				Polygon: []Point{
					{X: cx + rings.ConeInnerR*math.Cos(s), Y: cy + rings.ConeInnerR*math.Sin(s)},
					{X: cx + rings.ConeOuterR*math.Cos(s), Y: cy + rings.ConeOuterR*math.Sin(s)},
					{X: cx + rings.ConeOuterR*math.Cos(e), Y: cy + rings.ConeOuterR*math.Sin(e)},
					{X: cx + rings.ConeInnerR*math.Cos(e), Y: cy + rings.ConeInnerR*math.Sin(e)},
				},
			}
		}
	}
	return New(cx, cy, rings, 0, pockets)
}

// DefaultEuropean is European centred at (400, 400) with DefaultRings.
func DefaultEuropean() *Layout {
	l, err := European(400, 400, DefaultRings)
	if err != nil {
		panic("layout: default european layout invalid: " + err.Error())
	}
	return l
}
