package optim

import (
	"context"
	"math"

	"github.com/san-kum/wheelsim/internal/analysis"
	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/sim"
)

// SpinDuration scores a tuning by how far its mean spin length, in seconds,
// lands from target. Forced stops count as a full second of error each.
func SpinDuration(l *layout.Layout, runs int, seed int64, target float64) Objective {
	return func(ctx context.Context, cfg config.Config) (float64, error) {
		outcomes, err := sim.NewEnsemble(l, cfg, runs, seed).Run(ctx)
		if err != nil {
			return 0, err
		}
		st := sim.Summarize(outcomes)
		return math.Abs(st.MeanTicks*cfg.TickDt-target) + float64(st.Forced), nil
	}
}

// Uniformity scores a tuning by the chi-square statistic of its outcomes.
func Uniformity(l *layout.Layout, runs int, seed int64) Objective {
	return func(ctx context.Context, cfg config.Config) (float64, error) {
		outcomes, err := sim.NewEnsemble(l, cfg, runs, seed).Run(ctx)
		if err != nil {
			return 0, err
		}
		numbers := make([]int, len(outcomes))
		for i, o := range outcomes {
			numbers[i] = o.Number
		}
		chi, _ := analysis.ChiSquare(analysis.Histogram(l.Numbers(), numbers))
		return chi, nil
	}
}
