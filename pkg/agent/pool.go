package agent

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize bounds concurrent long-running operations per agent.
const DefaultPoolSize = 2

// Pool runs jobs on at most size goroutines at a time.
type Pool struct {
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a pool. Non-positive sizes select DefaultPoolSize.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{sem: semaphore.NewWeighted(int64(size)), ctx: ctx, cancel: cancel}
}

// Go schedules fn. If the pool shuts down while fn is queued, fn still runs
// without a slot so it can observe its own cancellation and report.
func (p *Pool) Go(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(p.ctx, 1); err == nil {
			defer p.sem.Release(1)
		}
		fn()
	}()
}

// Shutdown stops handing out slots. It does not wait.
func (p *Pool) Shutdown() {
	p.cancel()
}

// Wait blocks until every scheduled job has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
