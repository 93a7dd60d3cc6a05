package bench

import (
	"context"
	"sync"
	"sync/atomic"
)

// forEach runs fn total times spread across workers goroutines and blocks
// until every worker has exited. The first error cancels the remaining work
// and is returned.
func forEach(ctx context.Context, workers, total int, fn func(context.Context) error) error {
	if total <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		cursor   atomic.Int64
		once     sync.Once
		firstErr error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for cursor.Add(1) <= int64(total) {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := fn(ctx); err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
			}
		}()
	}
	wg.Wait()

	return firstErr
}
