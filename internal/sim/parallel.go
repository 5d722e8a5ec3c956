package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sphsim/internal/dynamo"
)

// Factory builds an independent system and its metrics for one sweep value.
type Factory func(value float64) (System, []dynamo.Metric, error)

// Sweep runs one simulation per value with at most workers running at once.
// Results are returned in the order of values; the first error cancels the
// remaining runs.
func Sweep(ctx context.Context, values []float64, cfg Config, workers int, build Factory) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(values))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, v := range values {
		g.Go(func() error {
			sys, metrics, err := build(v)
			if err != nil {
				return err
			}

			sim := New(sys)
			for _, m := range metrics {
				sim.AddMetric(m)
			}

			res, err := sim.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
