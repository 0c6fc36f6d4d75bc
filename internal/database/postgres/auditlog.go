package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLogRepository implements append-only audit storage for PostgreSQL
type AuditLogRepository struct {
	db *pgxpool.Pool
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// LogEvent stores an event; userID may be nil when the offending payload
// carried no usable identity.
func (r *AuditLogRepository) LogEvent(ctx context.Context, eventType string, userID *string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO audit_log (event_type, user_id, details) VALUES ($1, $2, $3)`,
		eventType, userID, payload)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// CleanupOldEvents removes entries older than the retention period
func (r *AuditLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM audit_log WHERE created_at < NOW() - make_interval(days => $1)`,
		retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up audit log: %w", err)
	}
	return tag.RowsAffected(), nil
}
