// Package workqueue runs indexed tasks with bounded concurrency and an
// optional request rate limit. Results keep task order.
package workqueue

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options bounds a Run. Concurrency below one means one worker; a
// RequestsPerSecond of zero disables throttling.
type Options struct {
	Concurrency       int
	RequestsPerSecond float64
}

// Task computes the result for slot i.
type Task[T any] func(ctx context.Context, i int) (T, error)

// Run executes n tasks and returns their results indexed by task number. The
// first failing task cancels the rest and its error is returned.
func Run[T any](ctx context.Context, n int, opts Options, task Task[T]) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gCtx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if limiter != nil {
				if err := limiter.Wait(gCtx); err != nil {
					return fmt.Errorf("task %d: rate limit: %w", i, err)
				}
			}
			out, err := task(gCtx, i)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
