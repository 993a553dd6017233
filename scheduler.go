package bananabatch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency is the worker cap applied when settings leave
// MaxConcurrency unset.
const DefaultMaxConcurrency = 10

// runPool dispatches batchSize slots across min(maxConcurrency, batchSize)
// workers. The slot queue is a prefilled, closed channel, which gives a
// strict FIFO with an atomic dequeue. Progress is reported through
// sink.OnProgress under a mutex so observed values are non-decreasing.
//
// task is expected to contain its own failure handling (the retry loop);
// a non-nil return is an unexpected internal fault and aborts the pool.
func runPool(
	ctx context.Context,
	batchSize, maxConcurrency int,
	token *CancellationToken,
	sink StreamSink,
	task func(ctx context.Context, slot int) error,
) error {

	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	workers := min(maxConcurrency, batchSize)

	slots := make(chan int, batchSize)
	for i := 0; i < batchSize; i++ {
		slots <- i
	}
	close(slots)

	var (
		mu        sync.Mutex
		completed int
	)
	reportDone := func() {
		mu.Lock()
		defer mu.Unlock()
		completed++
		sink.OnProgress(completed, batchSize)
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for slot := range slots {
				if token.Cancelled() || gctx.Err() != nil {
					return nil
				}
				if err := task(gctx, slot); err != nil {
					return err
				}
				if token.Cancelled() {
					return nil
				}
				reportDone()
			}
			return nil
		})
	}

	return g.Wait()
}
