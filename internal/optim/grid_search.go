package optim

import (
	"context"
	"fmt"
	"math"
	"maps"

	"github.com/san-kum/wheelsim/internal/config"
)

// Objective scores one tuning; lower is better.
type Objective func(ctx context.Context, cfg config.Config) (float64, error)

// Best is the winning point of a search.
type Best struct {
	Params    map[string]float64
	Score     float64
	Evaluated int
}

// GridSearch tries every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("grid search: no values for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of points the search will evaluate.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

func (g *GridSearch) Search(ctx context.Context, base config.Config, obj Objective) (Best, error) {
	best := Best{Score: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), obj, &best)
	return best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg config.Config,
	current map[string]float64,
	obj Objective,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		score, err := obj(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%v: %w", current, err)
		}
		best.Evaluated++
		if score < best.Score {
			best.Score = score
			best.Params = maps.Clone(current)
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := cfg
		if err := next.SetParam(name, val); err != nil {
			return err
		}
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, current, obj, best); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}
