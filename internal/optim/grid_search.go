package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"maps"

	"github.com/san-kum/sphsim/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no parameter combination ran successfully")

// Builder creates a ready-to-run experiment for one parameter combination.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

// GridSearch evaluates every combination of the given parameter values and
// keeps the one that minimizes a run metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Outcome is the score of one evaluated combination.
type Outcome struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type Result struct {
	Best      map[string]float64
	BestValue float64
	Outcomes  []Outcome
}

// Combinations is the number of runs Search performs.
func (g *GridSearch) Combinations() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every combination in order. Failed builds or runs are
// recorded in the outcomes and skipped; cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	res := &Result{BestValue: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, res); err != nil {
		return res, err
	}
	if res.Best == nil {
		return res, ErrNoCandidate
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	res *Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		out := Outcome{Params: maps.Clone(current)}
		out.Value, out.Err = evaluate(ctx, build, current, metricName)
		res.Outcomes = append(res.Outcomes, out)
		if out.Err == nil && out.Value < res.BestValue {
			res.BestValue = out.Value
			res.Best = out.Params
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, res); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, build Builder, params map[string]float64, metricName string) (float64, error) {
	exp, err := build(params)
	if err != nil {
		return 0, err
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return 0, result.Errors[0]
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: unknown metric %q", metricName)
	}
	if math.IsNaN(val) {
		return 0, fmt.Errorf("optim: %s is NaN", metricName)
	}
	return val, nil
}
