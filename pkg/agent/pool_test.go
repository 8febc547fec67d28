package agent

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	p := NewPool(2)
	var running, peak atomic.Int32
	var mu sync.Mutex

	for i := 0; i < 6; i++ {
		p.Go(func() {
			n := running.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
		})
	}
	p.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Positive(t, peak.Load())
}

func TestPool_ShutdownStillRunsQueuedJobs(t *testing.T) {
	p := NewPool(1)
	block := make(chan struct{})
	ran := make(chan struct{})

	p.Go(func() { <-block })
	p.Go(func() { close(ran) })
	p.Shutdown()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run after shutdown")
	}
	close(block)
	p.Wait()
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	first := r.Add(WorkTask, "task")
	time.Sleep(time.Millisecond)
	second := r.Add(WorkFeedback, "fix it")

	items := r.List()
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, WorkFeedback, items[1].Kind)
	assert.Equal(t, "fix it", items[1].Input)

	r.Remove(first.ID)
	assert.Equal(t, 1, r.Len())
	r.Remove(first.ID)
	assert.Equal(t, 1, r.Len())
}
