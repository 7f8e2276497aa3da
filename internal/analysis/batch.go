package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio-grader/internal/types"
)

// MaxBatchSize bounds one batch request.
const MaxBatchSize = 100

// GradeBatch grades every entry with a bounded worker pool. One failing entry
// never aborts the batch; its row carries the error instead. Results keep the
// input order.
func (c *Coordinator) GradeBatch(ctx context.Context, entries []types.BatchEntry) *types.BatchResult {
	results := make([]types.GradingResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.MaxConcurrent)

	for i, entry := range entries {
		g.Go(func() error {
			result, err := c.Grade(gctx, entry.URL)
			if err != nil && result == nil {
				result = &types.GradingResult{URL: entry.URL, Error: err.Error()}
			}
			result.EntryID = entry.ID
			result.Name = entry.Name
			results[i] = *result
			return nil
		})
	}
	// Workers always return nil; Wait only joins them.
	_ = g.Wait()

	return &types.BatchResult{
		Results: results,
		Stats:   types.ComputeStats(results),
	}
}
