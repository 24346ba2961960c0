package batch

import (
	"context"
	"runtime"
	"sync"
)

type job struct {
	index int
	path  string
}

// Run calls fn for every path using up to workers goroutines (0 means
// runtime.NumCPU) and returns the results in input order. On failure the
// error of the earliest failing path is returned.
func Run[T any](ctx context.Context, paths []string, workers int,
	fn func(context.Context, string) (T, error),
) ([]T, error) {
	results := make([]T, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(paths))

	errs := make([]error, len(paths))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index], errs[j.index] = fn(ctx, j.path)
			}
		}()
	}

send:
	for i, p := range paths {
		select {
		case jobs <- job{index: i, path: p}:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
