// Package pool runs a fixed batch of independent tasks on a bounded
// worker pool and collects their results in task order.
//
// Tasks must be self-contained: no task may observe another task's
// in-progress state. The caller merges results in its own goroutine
// after Run returns, so merge operators that are commutative and
// associative make the outcome independent of completion order and of
// the degree of parallelism. If any task fails, the whole batch fails
// and no results are returned; cancellation of the surrounding context
// aborts the batch the same way.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// Task is one independent unit of work.
type Task[T any] func(ctx context.Context) (T, error)

// Run executes tasks on a pool of the given size and returns the results
// indexed like the input. workers <= 0 defaults to the available CPU
// count. The first task error aborts the batch and is returned; in that
// case no partial results are exposed.
func Run[T any](ctx context.Context, workers int, tasks []Task[T]) ([]T, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make([]T, len(tasks))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				out, err := tasks[i](ctx)
				if err != nil {
					fail(err)
					continue
				}
				results[i] = out
			}
		}()
	}

submit:
	for i := range tasks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
