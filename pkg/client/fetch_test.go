package client

import (
	"context"
	"sync"
	"testing"
)

func TestListFetcherCommitsLatest(t *testing.T) {
	var f ListFetcher[string]

	items, committed, err := f.Fetch(context.Background(), func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil || !committed {
		t.Fatalf("Fetch: committed=%v err=%v", committed, err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %v", items)
	}
	if got := f.Current(); len(got) != 2 {
		t.Errorf("Current = %v", got)
	}
}

func TestListFetcherDiscardsStaleResponse(t *testing.T) {
	var f ListFetcher[string]

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var staleCommitted bool
	go func() {
		defer wg.Done()
		// Slow fetch: starts first, finishes last.
		_, committed, _ := f.Fetch(context.Background(), func(ctx context.Context) ([]string, error) {
			close(firstStarted)
			<-release
			return []string{"stale"}, nil
		})
		staleCommitted = committed
	}()

	<-firstStarted
	// Newer fetch starts while the first is still in flight.
	items, committed, err := f.Fetch(context.Background(), func(ctx context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	})
	if err != nil || !committed {
		t.Fatalf("fresh fetch: committed=%v err=%v", committed, err)
	}
	if items[0] != "fresh" {
		t.Fatalf("items = %v", items)
	}

	close(release)
	wg.Wait()

	if staleCommitted {
		t.Error("stale response must be discarded")
	}
	if got := f.Current(); len(got) != 1 || got[0] != "fresh" {
		t.Errorf("Current = %v, stale result overwrote fresh state", got)
	}
}

func TestListFetcherErrorOnCurrentGeneration(t *testing.T) {
	var f ListFetcher[int]

	f.Fetch(context.Background(), func(ctx context.Context) ([]int, error) {
		return []int{1}, nil
	})

	_, committed, err := f.Fetch(context.Background(), func(ctx context.Context) ([]int, error) {
		return nil, context.DeadlineExceeded
	})
	if !committed || err == nil {
		t.Fatalf("expected surfaced error on current generation, committed=%v err=%v", committed, err)
	}
	// A failed fetch keeps the previous committed state.
	if got := f.Current(); len(got) != 1 {
		t.Errorf("Current = %v", got)
	}
}
