package viz

import (
	"math"

	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/layout"
)

const trailLen = 24

// Wheel projects a layout onto a canvas and draws it frame by frame.
type Wheel struct {
	layout *layout.Layout
	canvas *Canvas
	scale  float64
	ox, oy float64
	trail  [][2]int
}

// NewWheel fits the outer rim of l inside c with a one dot margin.
func NewWheel(l *layout.Layout, c *Canvas) *Wheel {
	w, h := c.Dots()
	side := math.Min(float64(w), float64(h))
	return &Wheel{
		layout: l,
		canvas: c,
		scale:  (side/2 - 1) / l.Rings.OuterR,
		ox:     float64(w) / 2,
		oy:     float64(h) / 2,
		trail:  make([][2]int, 0, trailLen),
	}
}

func (w *Wheel) Canvas() *Canvas { return w.canvas }

// project maps world coordinates to dots. World y grows downwards, as on
// screen.
func (w *Wheel) project(x, y float64) (int, int) {
	return int(math.Round(w.ox + (x-w.layout.CX)*w.scale)),
		int(math.Round(w.oy + (y-w.layout.CY)*w.scale))
}

func (w *Wheel) polar(r, theta float64) (int, int) {
	return w.project(w.layout.WorldPoint(r, theta))
}

func (w *Wheel) radius(r float64) int { return int(math.Round(r * w.scale)) }

// ClearTrail forgets the ball's recent path.
func (w *Wheel) ClearTrail() { w.trail = w.trail[:0] }

// Draw renders the static rings, the rotor at rotorDeg and the ball at world
// position (bx, by). The ball's recent path is drawn as single dots.
func (w *Wheel) Draw(rotorDeg, bx, by float64) {
	c := w.canvas
	c.Clear()

	cx, cy := w.project(w.layout.CX, w.layout.CY)
	rg := w.layout.Rings
	for _, r := range []float64{rg.OuterR, rg.TrackInnerR, rg.ConeOuterR, rg.ConeInnerR, rg.HubR} {
		c.Circle(cx, cy, w.radius(r))
	}

	rot := dynamo.Deg2Rad(rotorDeg)
	for _, s := range w.layout.Separators {
		x0, y0 := w.polar(rg.ConeInnerR, s+rot)
		x1, y1 := w.polar(rg.ConeOuterR, s+rot)
		c.Line(x0, y0, x1, y1)
	}

	// rotor marker through the zero pocket
	if len(w.layout.Pockets) > 0 {
		zero := w.layout.Pockets[0].Center + rot
		x0, y0 := w.polar(rg.HubR*0.3, zero)
		x1, y1 := w.polar(rg.ConeInnerR, zero)
		c.Line(x0, y0, x1, y1)
	}

	px, py := w.project(bx, by)
	for _, p := range w.trail {
		c.Set(p[0], p[1])
	}
	if len(w.trail) == trailLen {
		copy(w.trail, w.trail[1:])
		w.trail = w.trail[:trailLen-1]
	}
	w.trail = append(w.trail, [2]int{px, py})
	c.Disc(px, py, 1)
}

// RenderWheel draws one still frame onto a fresh width x height canvas.
func RenderWheel(l *layout.Layout, width, height int, rotorDeg, bx, by float64) *Canvas {
	w := NewWheel(l, NewCanvas(width, height))
	w.Draw(rotorDeg, bx, by)
	return w.canvas
}
