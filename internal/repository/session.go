package repository

import (
	"context"
	"time"

	"github.com/wandermesh/waystation/internal/domain"
)

// Session defines the interface for the persisted session mirror. The
// mirror exists for audit and post-mortem only; liveness questions are
// answered by the in-memory registry, never by these rows.
type Session interface {
	InsertSession(ctx context.Context, session *domain.Session) error
	TouchSession(ctx context.Context, agentID string) error
	DeleteSession(ctx context.Context, agentID string) error

	// DeleteStale removes mirror rows whose last_seen is older than the
	// cutoff and returns how many were pruned.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}
