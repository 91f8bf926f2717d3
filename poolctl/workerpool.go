// Package poolctl holds the two process-wide bounded resources the
// pipeline shares across concurrent Extract calls: the library-tier
// worker pool and the browser-concurrency permit pool (spec §5).
package poolctl

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// WorkerPool runs synchronous work (the Tier 2 article-extraction
// library) on its own goroutine per call, with at most size calls
// holding a slot at once. A call whose ctx ends gives up its slot while
// its fn may still be running. A rate limiter bounds how fast new
// work is admitted, so a burst of Tier-2 dispatches queues smoothly
// instead of spawning unbounded pending work — the Go analogue of a
// bounded dispatch queue in front of a thread pool.
type WorkerPool struct {
	sem     chan struct{}
	limiter *rate.Limiter
}

// NewWorkerPool creates a pool with the given number of workers
// (spec: fixed size 4) and an admission rate of admitPerSecond
// dispatches/second (burst equal to size).
func NewWorkerPool(size int, admitPerSecond float64) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		sem:     make(chan struct{}, size),
		limiter: rate.NewLimiter(rate.Limit(admitPerSecond), size),
	}
}

// Run submits fn to the pool and blocks until either fn completes or
// ctx is done. If ctx is done first, Run returns ctx.Err() and fn's
// result (if it later completes) is discarded — the caller has already
// moved on, matching the orchestrator's per-tier deadline semantics.
func (p *WorkerPool) Run(ctx context.Context, fn func() (any, error)) (any, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("poolctl: admission wait: %w", err)
	}

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()

	type outcome struct {
		val any
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn()
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.val, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
