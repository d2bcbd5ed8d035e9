package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

func TestEuropeanLayout(t *testing.T) {
	l := DefaultEuropean()

	if len(l.Pockets) != 37 {
		t.Fatalf("expected 37 pockets, got %d", len(l.Pockets))
	}

	seen := make(map[int]bool)
	for _, n := range l.Numbers() {
		if n < 0 || n > 36 {
			t.Errorf("pocket number %d out of range", n)
		}
		if seen[n] {
			t.Errorf("pocket number %d repeated", n)
		}
		seen[n] = true
	}

	if l.PocketR < l.Rings.ConeInnerR || l.PocketR > l.Rings.ConeOuterR {
		t.Errorf("pocket ring %v outside cone band", l.PocketR)
	}
	if len(l.Separators) != 37 {
		t.Errorf("expected 37 separators, got %d", len(l.Separators))
	}
	if math.Abs(l.PocketHalfWidth()-math.Pi/37) > 1e-12 {
		t.Errorf("unexpected pocket half width %v", l.PocketHalfWidth())
	}
}

func TestValidate_Errors(t *testing.T) {
	pockets := []Pocket{{Number: 0, Center: 0, Start: -0.1, End: 0.1}}

	tests := []struct {
		name    string
		rings   Rings
		pockets []Pocket
	}{
		{"missing hub", Rings{OuterR: 10, TrackOuterR: 9, TrackInnerR: 8, ConeOuterR: 7, ConeInnerR: 6}, pockets},
		{"unordered rings", Rings{OuterR: 10, TrackOuterR: 11, TrackInnerR: 8, ConeOuterR: 7, ConeInnerR: 6, HubR: 5}, pockets},
		{"no pockets", DefaultRings, nil},
		{"duplicate numbers", DefaultRings, []Pocket{{Number: 3}, {Number: 3, Center: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(0, 0, tt.rings, 0, tt.pockets)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, dynamo.ErrInvalidLayout) {
				t.Errorf("expected ErrInvalidLayout, got %v", err)
			}
		})
	}
}

func TestNearest_ExactCenters(t *testing.T) {
	l := DefaultEuropean()
	for i, p := range l.Pockets {
		if got := l.Nearest(p.Center); got != i {
			t.Errorf("Nearest(center of %d) = %d", i, got)
		}
	}
}

func TestNearest_Wraparound(t *testing.T) {
	l := DefaultEuropean()
	eps := 1e-9

	// pocket 0 is centred on angle zero, so both sides of the wrap resolve to it
	if got := l.Nearest(-eps); got != 0 {
		t.Errorf("Nearest(-eps) = %d, want 0", got)
	}
	if got := l.Nearest(dynamo.TwoPi + eps); got != 0 {
		t.Errorf("Nearest(2π+eps) = %d, want 0", got)
	}

	// just past the last pocket's centre on the way to 2π stays on the last pocket
	last := len(l.Pockets) - 1
	if got := l.Nearest(l.Pockets[last].Center + 0.01); got != last {
		t.Errorf("Nearest near last centre = %d, want %d", got, last)
	}
	// three quarters of a pitch below 2π belongs to pocket zero's neighbour, not pocket 0
	pitch := dynamo.TwoPi / 37
	if got := l.Nearest(dynamo.TwoPi - 0.75*pitch); got != last {
		t.Errorf("Nearest(2π-0.75 pitch) = %d, want %d", got, last)
	}
}

func TestNearest_ShiftedLayoutWrap(t *testing.T) {
	// centres straddle zero: nothing sits exactly on angle zero
	pockets := []Pocket{
		{Number: 1, Center: dynamo.Deg2Rad(350), Start: dynamo.Deg2Rad(340), End: dynamo.Deg2Rad(0)},
		{Number: 2, Center: dynamo.Deg2Rad(10), Start: dynamo.Deg2Rad(0), End: dynamo.Deg2Rad(20)},
		{Number: 3, Center: dynamo.Deg2Rad(180), Start: dynamo.Deg2Rad(20), End: dynamo.Deg2Rad(340)},
	}
	l, err := New(0, 0, DefaultRings, 0, pockets)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	eps := 1e-9
	if got := l.Nearest(-eps); l.Number(got) != 1 {
		t.Errorf("Nearest(-eps) -> number %d, want 1", l.Number(got))
	}
	if got := l.Nearest(dynamo.TwoPi + eps); l.Number(got) != 2 {
		t.Errorf("Nearest(2π+eps) -> number %d, want 2", l.Number(got))
	}
}

func TestContaining(t *testing.T) {
	l := DefaultEuropean()
	half := l.PocketHalfWidth()

	for i, p := range l.Pockets {
		if got := l.Containing(p.Center + 0.5*half); got != i {
			t.Errorf("Containing inside pocket %d = %d", i, got)
		}
	}

	// pocket 0 range wraps across 2π
	if got := l.Containing(dynamo.TwoPi - 0.5*half); got != 0 {
		t.Errorf("Containing across wrap = %d, want 0", got)
	}
}

func TestContaining_FallbackToNearest(t *testing.T) {
	// ranges leave a gap between 30° and 330°
	pockets := []Pocket{
		{Number: 7, Center: 0, Start: dynamo.Deg2Rad(-10), End: dynamo.Deg2Rad(10)},
		{Number: 8, Center: dynamo.Deg2Rad(20), Start: dynamo.Deg2Rad(10), End: dynamo.Deg2Rad(30)},
	}
	l, err := New(0, 0, DefaultRings, 0, pockets)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if got := l.Containing(dynamo.Deg2Rad(40)); l.Number(got) != 8 {
		t.Errorf("fallback picked number %d, want 8", l.Number(got))
	}
}

func TestPocketAt_TapMapping(t *testing.T) {
	l := DefaultEuropean()
	target := l.Pockets[8]

	x, y := l.WorldPoint(l.PocketR, target.Center)
	if got := l.PocketAt(x, y, 0); got != 8 {
		t.Errorf("PocketAt(center of 8, rotor 0) = %d, want 8", got)
	}

	// with the rotor turned by one pitch the same world point shows the previous pocket
	pitchDeg := 360.0 / 37
	if got := l.PocketAt(x, y, pitchDeg); got != 7 {
		t.Errorf("PocketAt with rotor one pitch ahead = %d, want 7", got)
	}
}

func TestNeighbors(t *testing.T) {
	l := DefaultEuropean()
	got := l.Neighbors(0, 3, nil)
	want := []int{0, 1, 36}
	if len(got) != len(want) {
		t.Fatalf("Neighbors len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNeighbors_WholeWheel(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		k       int
	}{
		{"even wheel", []int{0, 1, 2, 3}, 4},
		{"even wheel, k above size", []int{0, 1, 2, 3, 4, 5}, 10},
		{"odd wheel", EuropeanOrder, 37},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Uniform(0, 0, DefaultRings, tt.numbers)
			if err != nil {
				t.Fatal(err)
			}
			got := l.Neighbors(0, tt.k, []int{99})
			if len(got) != len(tt.numbers)+1 {
				t.Fatalf("Neighbors returned %d entries, want %d: %v", len(got)-1, len(tt.numbers), got)
			}
			seen := make(map[int]bool)
			for _, idx := range got[1:] {
				if seen[idx] {
					t.Errorf("pocket %d listed twice: %v", idx, got)
				}
				seen[idx] = true
			}
		})
	}
}

func TestParse_RoundTripAndConvention(t *testing.T) {
	l := DefaultEuropean()
	data, err := l.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(back.Pockets) != 37 || back.Pockets[8].Number != l.Pockets[8].Number {
		t.Fatal("round trip lost pockets")
	}
	if math.Abs(back.PocketR-l.PocketR) > 1e-9 {
		t.Errorf("pocket ring %v, want %v", back.PocketR, l.PocketR)
	}

	cw := []byte(`
center: {x: 0, y: 0}
rings: {outer: 380, track_outer: 362, track_inner: 300, cone_outer: 250, cone_inner: 170, hub: 120}
convention: {clockwise: true, offset_deg: 90}
pockets:
  - {number: 0, center_deg: 0, start_deg: -10, end_deg: 10}
  - {number: 1, center_deg: 90, start_deg: 80, end_deg: 100}
`)
	cl, err := Parse(cw)
	if err != nil {
		t.Fatalf("parse clockwise: %v", err)
	}
	// 90° clockwise with a 90° offset lands on canonical zero
	if d := dynamo.AngleDist(cl.Pockets[1].Center, 0); d > 1e-9 {
		t.Errorf("clockwise centre normalized to %v", cl.Pockets[1].Center)
	}
	if got := cl.Containing(dynamo.Deg2Rad(5)); cl.Number(got) != 1 {
		t.Errorf("clockwise range lookup -> number %d, want 1", cl.Number(got))
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("rings: {outer: 10}\npockets: []\n"))
	if !errors.Is(err, dynamo.ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout, got %v", err)
	}
}
