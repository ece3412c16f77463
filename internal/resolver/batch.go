package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dcvtools/haircuts/pkg/models"
)

// BatchItem pairs one period's resolution outcome with any input error.
type BatchItem struct {
	Period models.Period
	Result *models.ResolutionResult
	Err    error
}

// Batch resolves many periods with a bounded worker pool. Periods are
// independent, so they run concurrently; within each period the candidate
// ordering stays strictly sequential. Results come back in input order.
func Batch(ctx context.Context, r Resolver, periods []models.Period, concurrency int) []BatchItem {
	if concurrency < 1 {
		concurrency = 1
	}

	items := make([]BatchItem, len(periods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range periods {
		i, p := i, p
		g.Go(func() error {
			res, err := r.Resolve(gctx, p)
			items[i] = BatchItem{Period: p, Result: res, Err: err}
			return nil // per-period failures are carried in the item
		})
	}
	g.Wait()
	return items
}
