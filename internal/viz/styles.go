package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// IsRed reports whether n is a red number on a single-zero wheel.
func IsRed(n int) bool { return redNumbers[n] }

// styles is derived from CurrentTheme on every render so theme switches show
// up on the next frame.
type styles struct {
	header, label, value, active, muted, graph, panel lipgloss.Style
	running, paused, recording, settled               lipgloss.Style
}

func currentStyles() styles {
	t := CurrentTheme
	return styles{
		header:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		active:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(t.Muted),
		graph:     lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		panel:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(46),
		running:   lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		recording: lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		settled:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// NumberBadge renders a pocket number on its wheel colour.
func NumberBadge(n int) string {
	t := CurrentTheme
	bg := t.Black
	switch {
	case n == 0:
		bg = t.Green
	case IsRed(n):
		bg = t.Red
	}
	return lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%2d", n))
}

// ProgressBar renders fraction in [0, 1] as a bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	t := CurrentTheme
	switch {
	case fraction > 0.8:
		return lipgloss.NewStyle().Foreground(t.Success).Render(bar)
	case fraction > 0.4:
		return lipgloss.NewStyle().Foreground(t.Warning).Render(bar)
	}
	return lipgloss.NewStyle().Foreground(t.Error).Render(bar)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline compresses values into width glyphs, sampling evenly.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	stride := max(len(values)/width, 1)

	var b strings.Builder
	for i := 0; i < width && i*stride < len(values); i++ {
		norm := (values[i*stride] - lo) / span
		idx := int(norm * float64(len(sparkRunes)-1))
		idx = min(max(idx, 0), len(sparkRunes)-1)
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// Separator is a muted horizontal rule.
func Separator(width int) string {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(strings.Repeat("─", max(width, 0)))
}
