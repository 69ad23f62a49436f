package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type job[T any] struct {
	index int
	item  T
}

// Pool fans items out to a fixed number of workers
type Pool struct {
	name        string
	workerCount int
}

// NewPool creates a pool. workerCount below 1 runs a single worker.
func NewPool(name string, workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{name: name, workerCount: workerCount}
}

func (p *Pool) WorkerCount() int {
	return p.workerCount
}

// Run calls fn for every item and returns the results in input order.
// Items never dispatched because ctx was cancelled are reported in the
// returned bool slice as false, and ctx.Err() is returned.
func Run[T, R any](ctx context.Context, p *Pool, items []T, fn func(ctx context.Context, item T) R) ([]R, []bool, error) {
	results := make([]R, len(items))
	done := make([]bool, len(items))
	if len(items) == 0 {
		return results, done, nil
	}

	workerCount := p.workerCount
	if workerCount > len(items) {
		workerCount = len(items)
	}

	jobChan := make(chan job[T], len(items))
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobChan {
				if ctx.Err() != nil {
					continue
				}
				results[j.index] = fn(ctx, j.item)
				done[j.index] = true
			}
			log.Debug().Str("pool", p.name).Int("worker", workerID).Msg("worker finished")
		}(i)
	}

	// Enqueue jobs
	var enqueueErr error
enqueue:
	for i, item := range items {
		select {
		case <-ctx.Done():
			enqueueErr = ctx.Err()
			break enqueue
		case jobChan <- job[T]{index: i, item: item}:
		}
	}
	close(jobChan)

	// Wait for all workers
	wg.Wait()

	if enqueueErr != nil {
		return results, done, enqueueErr
	}
	if err := ctx.Err(); err != nil {
		for _, ok := range done {
			if !ok {
				return results, done, err
			}
		}
	}
	return results, done, nil
}
