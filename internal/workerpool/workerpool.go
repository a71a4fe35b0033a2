// Package workerpool provides bounded-concurrency fan-out over a list of
// items, built on golang.org/x/sync/errgroup with the group capped via
// SetLimit, since file-parsing fan-out is sized in the hundreds to
// thousands of items rather than a handful of fixed stages.
package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run executes fn(item) for every item in items with at most maxWorkers
// running concurrently. It returns the first error encountered; ctx is
// canceled for the remaining in-flight workers once any fn call fails,
// the cooperative-cancellation contract errgroup.WithContext provides.
func Run[T any](ctx context.Context, maxWorkers int, items []T, fn func(ctx context.Context, item T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if maxWorkers > 0 {
		g.SetLimit(maxWorkers)
	}

	for _, item := range items {
		item := item
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, item)
		})
	}

	return g.Wait()
}

// Map runs fn over every item with bounded concurrency and collects
// results in input order. A failing fn call aborts the remaining workers
// and returns its error; partial results up to that point are discarded,
// since a caller needing partial results should use Run directly.
func Map[T any, R any](ctx context.Context, maxWorkers int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	err := Run(ctx, maxWorkers, indices(len(items)), func(ctx context.Context, i int) error {
		r, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
