package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/metrics"
	"github.com/san-kum/wheelsim/internal/sim"
)

// Registry maps metric names to constructors. Metrics that depend on the
// wheel geometry receive the layout.
type Registry struct {
	metrics map[string]func(*layout.Layout) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func(*layout.Layout) sim.Metric)}

	r.metrics["kinetic_energy"] = func(*layout.Layout) sim.Metric { return metrics.NewKineticEnergy() }
	r.metrics["peak_energy"] = func(*layout.Layout) sim.Metric { return metrics.NewPeakEnergy() }
	r.metrics["stability"] = func(l *layout.Layout) sim.Metric { return metrics.NewStability(l.Rings) }
	r.metrics["rotor_slip"] = func(*layout.Layout) sim.Metric { return metrics.NewRotorSlip() }
	r.metrics["speed_decay"] = func(*layout.Layout) sim.Metric { return metrics.NewSpeedDecay() }

	return r
}

func (r *Registry) GetMetric(name string, l *layout.Layout) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(l), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is every registered metric.
func (r *Registry) DefaultMetrics(l *layout.Layout) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](l))
	}
	return out
}
