package cipher

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchLimit bounds ExecuteBatch when the caller passes limit <= 0.
const DefaultBatchLimit = 8

// ExecuteBatch runs p over every input concurrently, at most limit at a
// time. Results keep input order. The first failure cancels the remaining
// inputs and is returned with its index.
func ExecuteBatch(ctx context.Context, p *Pipeline, inputs [][]byte, limit int) ([][]byte, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	results := make([][]byte, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			out, err := p.Execute(gctx, in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
