package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wandermesh/waystation/internal/domain"
)

// SessionRepository implements the persisted session mirror for PostgreSQL
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// InsertSession records a new session row
func (r *SessionRepository) InsertSession(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, agent_id, world_id)
		VALUES ($1, $2, $3, $4)
		RETURNING connected_at, last_seen
	`
	err := r.db.QueryRow(ctx, query, session.ID, session.UserID, session.AgentID, session.WorldID).
		Scan(&session.ConnectedAt, &session.LastSeen)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// TouchSession refreshes last_seen for the agent's session rows
func (r *SessionRepository) TouchSession(ctx context.Context, agentID string) error {
	_, err := r.db.Exec(ctx, `UPDATE sessions SET last_seen = NOW() WHERE agent_id = $1`, agentID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// DeleteSession removes the agent's session rows
func (r *SessionRepository) DeleteSession(ctx context.Context, agentID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE agent_id = $1`, agentID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteStale prunes mirror rows not seen since the cutoff
func (r *SessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE last_seen < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
