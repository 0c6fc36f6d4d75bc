package concurrency

import (
	"sync"
)

// LockManager hands out named mutexes. The handoff engine uses one lock
// per agent ID so that two concurrent handoffs for the same traveler can
// never interleave session creation and inventory merges.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it on first use.
// Locks are never released from the map; the key space (agent IDs seen by
// one world) is small enough that this does not matter.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
