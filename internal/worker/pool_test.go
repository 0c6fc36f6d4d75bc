package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wandermesh/waystation/internal/testing/leaktest"
)

func TestPool_ProcessesJobs(t *testing.T) {
	pool := NewPool(2, 8)
	pool.Start()
	defer pool.Stop()

	var processed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		pool.Enqueue(JobFunc(func(ctx context.Context) error {
			defer wg.Done()
			processed.Add(1)
			return nil
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(10), processed.Load())
}

func TestPool_FailingJobDoesNotKillWorker(t *testing.T) {
	pool := NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	done := make(chan struct{})
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		return errors.New("job exploded")
	}))
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker stopped processing after a job failure")
	}
}

func TestPool_StopWaitsForWorkers(t *testing.T) {
	checker := leaktest.NewChecker(t)

	pool := NewPool(2, 4)
	pool.Start()
	pool.Stop() // must return, not hang

	checker.Check(0)
}
