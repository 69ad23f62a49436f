package batch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunPreservesOrder(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		items   []int
	}{
		{name: "single worker", workers: 1, items: []int{1, 2, 3, 4}},
		{name: "more workers than items", workers: 8, items: []int{5, 6, 7}},
		{name: "zero workers falls back to one", workers: 0, items: []int{9, 10}},
		{name: "empty input", workers: 3, items: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool("test", tt.workers)
			results, done, err := Run(context.Background(), pool, tt.items, func(ctx context.Context, n int) int {
				// later items finish first
				time.Sleep(time.Duration(10-n%10) * time.Millisecond)
				return n * n
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(results) != len(tt.items) {
				t.Fatalf("got %d results, want %d", len(results), len(tt.items))
			}
			for i, n := range tt.items {
				if results[i] != n*n {
					t.Errorf("results[%d] = %d, want %d", i, results[i], n*n)
				}
				if !done[i] {
					t.Errorf("done[%d] = false", i)
				}
			}
		})
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var running, peak int32
	pool := NewPool("test", 2)
	items := make([]int, 10)

	_, _, err := Run(context.Background(), pool, items, func(ctx context.Context, _ int) struct{} {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return struct{}{}
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if peak > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool("test", 2)
	var calls int32
	_, done, err := Run(ctx, pool, []int{1, 2, 3}, func(ctx context.Context, n int) int {
		atomic.AddInt32(&calls, 1)
		return n
	})
	if err == nil {
		t.Fatal("expected context error")
	}
	if calls != 0 {
		t.Fatalf("fn called %d times after cancellation", calls)
	}
	for i, ok := range done {
		if ok {
			t.Errorf("done[%d] = true, want false", i)
		}
	}
}
