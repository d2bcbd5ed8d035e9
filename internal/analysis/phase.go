package analysis

import (
	"strings"

	"github.com/san-kum/wheelsim/internal/dynamo"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// PhasePortrait projects recorded samples onto two of their components,
// e.g. physics.IdxR against physics.IdxRV.
func PhasePortrait(states []dynamo.State, xIdx, yIdx int) *PhasePortrait2D {
	if len(states) == 0 || xIdx < 0 || yIdx < 0 {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, len(states)),
	}
	for _, x := range states {
		if xIdx >= len(x) || yIdx >= len(x) || !x.IsValid() {
			continue
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: x[xIdx],
			Y: x[yIdx],
		})
	}
	return portrait
}

// PhasePortraitToASCII renders the portrait as a dot plot with zero axes
// drawn where they fall inside the padded bounds.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			grid[r][c] = '─'
		}
	}
	for _, p := range portrait.Points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// pad widens [lo, hi] by 10% on each side, or to unit width when flat.
func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}
