package viz

import (
	"bytes"
	"image"
	"image/gif"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Dots(); w != 8 || h != 8 {
		t.Fatalf("dots = %dx%d, want 8x8", w, h)
	}
	c.Set(3, 5)
	c.Set(-1, 0)
	c.Set(8, 0)
	c.Set(0, 8)
	if !c.Lit(3, 5) || c.Count() != 1 {
		t.Fatalf("lit=%v count=%d", c.Lit(3, 5), c.Count())
	}
	c.Unset(3, 5)
	if c.Count() != 0 {
		t.Errorf("count after unset = %d", c.Count())
	}
	c.Set(1, 1)
	c.Clear()
	if c.Count() != 0 {
		t.Errorf("count after clear = %d", c.Count())
	}
}

func TestCanvasShapes(t *testing.T) {
	tests := []struct {
		name string
		draw func(*Canvas)
		want int
	}{
		{"horizontal line", func(c *Canvas) { c.Line(0, 0, 9, 0) }, 10},
		{"vertical line", func(c *Canvas) { c.Line(4, 9, 4, 0) }, 10},
		{"diagonal", func(c *Canvas) { c.Line(0, 0, 5, 5) }, 6},
		{"unit disc", func(c *Canvas) { c.Disc(10, 10, 1) }, 5},
		{"point circle", func(c *Canvas) { c.Circle(3, 3, 0) }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(20, 10)
			tt.draw(c)
			if got := c.Count(); got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCircleHitsAxes(t *testing.T) {
	c := NewCanvas(20, 10)
	c.Circle(20, 20, 10)
	for _, p := range [][2]int{{30, 20}, {10, 20}, {20, 30}, {20, 10}} {
		if !c.Lit(p[0], p[1]) {
			t.Errorf("(%d,%d) not lit", p[0], p[1])
		}
	}
	if c.Lit(20, 20) {
		t.Error("centre should stay dark")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if utf8.RuneCountInString(lines[0]) != 3 {
		t.Errorf("row width = %d", utf8.RuneCountInString(lines[0]))
	}
	if r, _ := utf8.DecodeRuneInString(lines[0]); r != 0x2801 {
		t.Errorf("first cell = %U, want U+2801", r)
	}
}

func TestWheelDrawsBall(t *testing.T) {
	l := layout.DefaultEuropean()
	w := NewWheel(l, NewCanvas(60, 30))
	bx, by := l.WorldPoint(l.Rings.TrackInnerR+20, 1.0)
	w.Draw(0, bx, by)

	px, py := w.project(bx, by)
	if !w.Canvas().Lit(px, py) {
		t.Errorf("ball dot (%d,%d) not lit", px, py)
	}
	cx, cy := w.project(l.CX, l.CY)
	if cx != 60 || cy != 60 {
		t.Errorf("centre = (%d,%d), want (60,60)", cx, cy)
	}
	rx, _ := w.project(l.CX+l.Rings.OuterR, l.CY)
	if rx >= 120 {
		t.Errorf("rim at x=%d falls off a 120 dot canvas", rx)
	}
}

func TestWheelRotorMoves(t *testing.T) {
	l := layout.DefaultEuropean()
	bx, by := l.WorldPoint(l.Rings.OuterR, 0)
	a := RenderWheel(l, 60, 30, 0, bx, by).String()
	b := RenderWheel(l, 60, 30, 45, bx, by).String()
	if a == b {
		t.Error("rotating the rotor did not change the frame")
	}
}

func TestWheelTrailBounded(t *testing.T) {
	l := layout.DefaultEuropean()
	w := NewWheel(l, NewCanvas(60, 30))
	for i := 0; i < 3*trailLen; i++ {
		bx, by := l.WorldPoint(l.Rings.TrackInnerR, float64(i)*0.05)
		w.Draw(0, bx, by)
	}
	if len(w.trail) != trailLen {
		t.Errorf("trail = %d, want %d", len(w.trail), trailLen)
	}
	w.ClearTrail()
	if len(w.trail) != 0 {
		t.Error("trail not cleared")
	}
}

func TestCanvasImage(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	img := c.Image(8, 16)
	if got := img.Bounds(); got != image.Rect(0, 0, 32, 32) {
		t.Fatalf("bounds = %v", got)
	}
	if img.ColorIndexAt(0, 0) != 1 || img.ColorIndexAt(3, 3) != 1 {
		t.Error("lit dot not rasterised")
	}
	if img.ColorIndexAt(4, 0) != 0 {
		t.Error("neighbour dot should be background")
	}
}

func TestWriteGIF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGIF(&buf, nil, 2); err == nil {
		t.Error("expected error for empty recording")
	}
	c := NewCanvas(4, 2)
	c.Line(0, 0, 7, 7)
	frames := []*image.Paletted{c.Image(8, 16), c.Image(8, 16)}
	if err := WriteGIF(&buf, frames, 2); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 2 {
		t.Errorf("frames = %d, want 2", len(g.Image))
	}
}

func TestRedNumbers(t *testing.T) {
	red := 0
	for n := 0; n <= 36; n++ {
		if IsRed(n) {
			red++
		}
	}
	if red != 18 {
		t.Errorf("red numbers = %d, want 18", red)
	}
	if IsRed(0) || !IsRed(32) || IsRed(15) {
		t.Error("colour table mismatch")
	}
}

func TestSparklineWidth(t *testing.T) {
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = math.Sin(float64(i) / 10)
	}
	if got := utf8.RuneCountInString(Sparkline(vals, 20)); got != 20 {
		t.Errorf("width = %d, want 20", got)
	}
	if got := utf8.RuneCountInString(Sparkline(nil, 5)); got != 5 {
		t.Errorf("empty width = %d, want 5", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)
	seen := map[string]bool{}
	for range Themes {
		seen[CurrentTheme.Name] = true
		NextTheme()
	}
	if len(seen) != len(Themes) {
		t.Errorf("visited %d themes, want %d", len(seen), len(Themes))
	}
	if GetTheme("nope").Name != ThemeFelt.Name {
		t.Error("unknown theme should fall back to felt")
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	eng, err := physics.New(layout.DefaultEuropean(), nil, physics.WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(eng, Options{TicksPerFrame: 64})
}

func paramIndex(m Model, name string) int {
	for i, k := range m.paramKeys {
		if k == name {
			return i
		}
	}
	return -1
}

func TestModelRunsSpinToResult(t *testing.T) {
	m := newTestModel(t)
	if !m.eng.Rolling() {
		t.Fatal("model should launch on creation")
	}
	for i := 0; i < 5000 && m.eng.Rolling(); i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if m.eng.Rolling() {
		t.Fatal("spin did not settle")
	}
	if m.spins != 1 || len(m.results) != 1 {
		t.Fatalf("spins=%d results=%v", m.spins, m.results)
	}
	if m.results[0] != m.eng.ResultNumber() {
		t.Errorf("recorded %d, engine says %d", m.results[0], m.eng.ResultNumber())
	}
	if !strings.Contains(m.View(), "WHEELSIM") {
		t.Error("view is missing the title")
	}
}

func TestModelAdjustParam(t *testing.T) {
	m := newTestModel(t)
	base := m.eng.Config().Stickiness

	m.selected = paramIndex(m, "stickiness")
	if m.selected < 0 {
		t.Fatal("stickiness not tunable")
	}
	m.adjustParam(1)
	if got := m.eng.Config().Stickiness; math.Abs(got-base*1.05) > 1e-12 {
		t.Errorf("stickiness = %v, want %v", got, base*1.05)
	}

	m.selected = paramIndex(m, "rotor_fixed")
	fixed := m.eng.Config().RotorFixed
	m.adjustParam(1)
	if m.eng.Config().RotorFixed == fixed {
		t.Error("rotor_fixed did not toggle")
	}

	m.reset()
	if m.eng.Config().Stickiness != base || m.eng.Rolling() {
		t.Error("reset should restore config and idle the wheel")
	}
}

func TestModelScrub(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 10; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	m.scrub(-1)
	if m.running || m.playHead != len(m.history)-2 {
		t.Fatalf("playHead=%d running=%v", m.playHead, m.running)
	}
	m.scrub(100)
	if m.playHead != -1 {
		t.Errorf("scrubbing past the end should return to live, got %d", m.playHead)
	}
}

func TestModelRecordingBounded(t *testing.T) {
	m := newTestModel(t)
	m.wheel = NewWheel(m.eng.Layout(), NewCanvas(2, 1))
	m.toggleRecording()
	if !m.recording {
		t.Fatal("recording did not start")
	}

	for i := 0; i < maxGIFFrames+50; i++ {
		m.captureFrame()
	}
	if len(m.frames) != maxGIFFrames {
		t.Errorf("recorded %d frames, want %d", len(m.frames), maxGIFFrames)
	}
}
