// Package export turns rendered wheels and ball paths into SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG draws every lit braille dot as a circle, scale pixels apart.
func CanvasToSVG(c *viz.Canvas, scale float64) string {
	if c == nil {
		return ""
	}
	w, h := c.Dots()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	sb.WriteString(`<g fill="#3ddc84">` + "\n")
	r := scale * 0.4
	c.Each(func(x, y int) {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
	})
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Point is a world-space position.
type Point struct{ X, Y float64 }

// PathToSVG draws the wheel rings of l and the polyline through pts, scaled
// so the outer rim fills a size x size image.
func PathToSVG(l *layout.Layout, pts []Point, size int, stroke string) string {
	if l == nil {
		return ""
	}
	s := float64(size)
	k := (s/2 - 2) / l.Rings.OuterR
	tx := func(x float64) float64 { return s/2 + (x-l.CX)*k }
	ty := func(y float64) float64 { return s/2 + (y-l.CY)*k }

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, s, s, s, s)
	sb.WriteString(`<g fill="none" stroke="#444466" stroke-width="1">` + "\n")
	rg := l.Rings
	for _, r := range []float64{rg.OuterR, rg.TrackOuterR, rg.TrackInnerR, rg.ConeOuterR, rg.ConeInnerR, rg.HubR} {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", s/2, s/2, r*k)
	}
	sb.WriteString("</g>\n")

	if len(pts) >= 2 {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
		for i, p := range pts {
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", tx(p.X), ty(p.Y))
		}
		sb.WriteString(`"/>` + "\n")
		end := pts[len(pts)-1]
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="#ffffff"/>`+"\n", tx(end.X), ty(end.Y))
	}
	sb.WriteString("</svg>")
	return sb.String()
}
