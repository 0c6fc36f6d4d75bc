package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wandermesh/waystation/internal/worker"
)

func TestScheduler_RunsJobOnInterval(t *testing.T) {
	pool := worker.NewPool(1, 8)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	defer sched.Stop()

	var runs atomic.Int32
	sched.Schedule(20*time.Millisecond, worker.JobFunc(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestScheduler_StopHaltsScheduling(t *testing.T) {
	pool := worker.NewPool(1, 8)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)

	var runs atomic.Int32
	sched.Schedule(10*time.Millisecond, worker.JobFunc(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))

	time.Sleep(50 * time.Millisecond)
	sched.Stop()
	stopped := runs.Load()

	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), stopped+1, "no new runs after Stop beyond in-flight work")
}
