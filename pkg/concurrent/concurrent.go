package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map runs fn for every element of in on at most workers goroutines and
// returns the results in input order. The first error cancels the context
// seen by the remaining calls and is returned. workers <= 0 means one
// goroutine per element.
func Map[T, R any](ctx context.Context, in []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for idx, value := range in {
		g.Go(func() error {
			r, err := fn(ctx, value)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
