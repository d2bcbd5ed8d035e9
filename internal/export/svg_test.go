package export

import (
	"strings"
	"testing"

	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("nil canvas should render nothing")
	}
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	out := CanvasToSVG(c, 3)
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	if !strings.Contains(out, `width="24" height="24"`) {
		t.Errorf("unexpected size in %q", out[:120])
	}
	if !strings.HasSuffix(out, "</svg>") {
		t.Error("document not closed")
	}
}

func TestPathToSVG(t *testing.T) {
	l := layout.DefaultEuropean()
	pts := []Point{{l.CX + 300, l.CY}, {l.CX, l.CY + 250}, {l.CX - 210, l.CY}}
	out := PathToSVG(l, pts, 400, "#ff0000")

	if !strings.Contains(out, `stroke="#ff0000"`) {
		t.Error("path stroke missing")
	}
	if n := strings.Count(out, " L"); n != 2 {
		t.Errorf("segments = %d, want 2", n)
	}
	// six rings plus the resting ball
	if n := strings.Count(out, "<circle"); n != 7 {
		t.Errorf("circles = %d, want 7", n)
	}

	bare := PathToSVG(l, pts[:1], 400, "#ff0000")
	if strings.Contains(bare, "<path") {
		t.Error("a single point should not produce a path")
	}
}
