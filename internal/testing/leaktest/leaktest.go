// Package leaktest verifies that components which spawn goroutines, the
// relay connection loop and the worker pool in particular, actually wind
// them down on Stop.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// Checker snapshots the goroutine count at construction so a test can
// assert nothing leaked after the component under test shuts down.
type Checker struct {
	before int
	t      testing.TB
}

// NewChecker records the current goroutine count. Call it before starting
// the component under test.
func NewChecker(t testing.TB) *Checker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &Checker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test when the goroutine count grew by more than
// tolerance. It retries briefly so goroutines still unwinding from Stop do
// not produce false positives.
func (c *Checker) Check(tolerance int) {
	c.t.Helper()

	var after int
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		runtime.Gosched()
		runtime.GC()
		after = runtime.NumGoroutine()
		if after-c.before <= tolerance {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	c.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", c.before, after, tolerance)
}
