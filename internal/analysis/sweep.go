package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/sim"
)

// SweepPoint is the outcome of an ensemble at one parameter value.
type SweepPoint struct {
	Param     float64
	Stats     sim.Stats
	Numbers   []int // winning number of each run, in seed order
	ChiSquare float64
	Distinct  int
}

// SweepConfig describes a one-parameter sweep. Every value reuses the same
// seeds so differences come from the parameter alone.
type SweepConfig struct {
	Param    string
	Min, Max float64
	Steps    int
	Runs     int
	Seed     int64
}

// Sweep runs an ensemble for each parameter value in [Min, Max].
func Sweep(ctx context.Context, l *layout.Layout, base config.Config, sc SweepConfig) ([]SweepPoint, error) {
	if sc.Runs < 1 {
		return nil, fmt.Errorf("sweep needs at least one run per value, got %d", sc.Runs)
	}
	steps := sc.Steps
	if steps <= 1 {
		steps = 2 // Prevent division by zero
	}
	step := (sc.Max - sc.Min) / float64(steps-1)

	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := sc.Min + float64(i)*step

		cfg := base
		if err := cfg.SetParam(sc.Param, value); err != nil {
			return nil, err
		}

		outcomes, err := sim.NewEnsemble(l, cfg, sc.Runs, sc.Seed).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sc.Param, value, err)
		}

		numbers := make([]int, len(outcomes))
		for j, o := range outcomes {
			numbers[j] = o.Number
		}
		bins := Histogram(l.Numbers(), numbers)
		chi2, _ := ChiSquare(bins)

		points = append(points, SweepPoint{
			Param:     value,
			Stats:     sim.Summarize(outcomes),
			Numbers:   numbers,
			ChiSquare: chi2,
			Distinct:  Distinct(bins),
		})
	}
	return points, nil
}

// SweepToASCII plots every winning number against the parameter value, one
// column per sweep point.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var lo, hi int
	found := false
	for _, p := range data {
		for _, n := range p.Numbers {
			if !found {
				lo, hi, found = n, n, true
				continue
			}
			lo, hi = min(lo, n), max(hi, n)
		}
	}
	if !found {
		return ""
	}
	if hi == lo {
		hi = lo + 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, n := range p.Numbers {
			row := height - 1 - (n-lo)*(height-1)/(hi-lo)
			grid[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
