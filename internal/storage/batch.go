package storage

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// BatchGetter fetches many objects in parallel with bounded concurrency.
type BatchGetter struct {
	storage     ObjectStorage
	concurrency int
}

// BatchResult contains the outcome of a batch fetch. Every requested path
// appears in exactly one of the two maps.
type BatchResult struct {
	Objects map[string][]byte
	Errors  map[string]error
}

// NewBatchGetter creates a batch getter. A non-positive concurrency means 4.
func NewBatchGetter(storage ObjectStorage, concurrency int) *BatchGetter {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &BatchGetter{storage: storage, concurrency: concurrency}
}

// Get fetches every object in objectPaths. Individual failures are reported
// in the result; the returned error is only set if ctx ends the batch.
func (b *BatchGetter) Get(ctx context.Context, objectPaths []string) (*BatchResult, error) {
	result := &BatchResult{
		Objects: make(map[string][]byte, len(objectPaths)),
		Errors:  make(map[string]error),
	}

	sem := semaphore.NewWeighted(int64(b.concurrency))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, p := range objectPaths {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			result.Errors[p] = fmt.Errorf("semaphore acquire failed: %w", err)
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(path string) {
			defer sem.Release(1)
			defer wg.Done()

			data, err := b.storage.Get(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[path] = err
				return
			}
			result.Objects[path] = data
		}(p)
	}

	wg.Wait()
	return result, ctx.Err()
}
