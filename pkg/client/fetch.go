package client

import (
	"context"
	"sync"
)

// ListFetcher serializes commits of overlapping list fetches. Each Fetch
// takes a generation number; when the response arrives it only commits if
// no newer fetch has started, so a slow stale response can never overwrite
// a fresher one.
type ListFetcher[T any] struct {
	mu      sync.Mutex
	gen     uint64
	current []T
}

// Fetch runs fn and commits its result unless a newer Fetch started in the
// meantime. The returned bool is false when the result was discarded as
// stale.
func (f *ListFetcher[T]) Fetch(ctx context.Context, fn func(ctx context.Context) ([]T, error)) ([]T, bool, error) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	items, err := fn(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return nil, false, nil // a newer fetch owns the state now
	}
	if err != nil {
		return nil, true, err
	}
	f.current = items
	return items, true, nil
}

// Current returns the last committed result.
func (f *ListFetcher[T]) Current() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}
