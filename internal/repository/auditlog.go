package repository

import (
	"context"
	"time"
)

// AuditLog defines the interface for append-only audit storage. Entries
// are written by the core but never read back by it.
type AuditLog interface {
	// LogEvent stores an event; userID is best effort and may be nil.
	LogEvent(ctx context.Context, eventType string, userID *string, details map[string]interface{}) error

	// CleanupOldEvents removes entries older than the retention period and
	// returns how many were deleted.
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

// AuditLogEntry represents a logged event
type AuditLogEntry struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	UserID    *string                `json:"user_id,omitempty"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}
