package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/repository"
)

// Registry is the process-wide authoritative map of currently connected
// agents, keyed by agent ID, with a persisted mirror kept for audit. The
// mirror is never reloaded: a restart always starts with an empty online
// set, and stale rows linger in storage until the next sweep.
type Registry struct {
	mu      sync.RWMutex
	active  map[string]*domain.Session
	repo    repository.Session
	timeout time.Duration
}

// NewRegistry creates a session registry backed by the given mirror
func NewRegistry(repo repository.Session, timeout time.Duration) *Registry {
	return &Registry{
		active:  make(map[string]*domain.Session),
		repo:    repo,
		timeout: timeout,
	}
}

// Create admits an agent: it generates a session ID, inserts the mirror
// row, and installs the in-memory entry. Re-admission of an agent that is
// already online silently replaces the prior entry.
func (r *Registry) Create(ctx context.Context, userID, agentID, worldID string) (string, error) {
	log := logger.FromContext(ctx)

	session := &domain.Session{
		ID:      uuid.NewString(),
		UserID:  userID,
		AgentID: agentID,
		WorldID: worldID,
	}
	if err := r.repo.InsertSession(ctx, session); err != nil {
		return "", err
	}
	if session.ConnectedAt.IsZero() {
		session.ConnectedAt = time.Now()
		session.LastSeen = session.ConnectedAt
	}

	r.mu.Lock()
	r.active[agentID] = session
	r.mu.Unlock()

	log.Info(LogMsgSessionCreated, "agent_id", agentID, "user_id", userID, "session_id", session.ID)
	return session.ID, nil
}

// Update is the heartbeat: it refreshes last_seen in memory and in the
// mirror. A heartbeat for an agent with no in-memory entry is a no-op.
func (r *Registry) Update(ctx context.Context, agentID string) error {
	r.mu.Lock()
	session, ok := r.active[agentID]
	if ok {
		session.LastSeen = time.Now()
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.repo.TouchSession(ctx, agentID)
}

// Get returns the live session for an agent, if any
func (r *Registry) Get(agentID string) (*domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.active[agentID]
	return session, ok
}

// GetAll returns a snapshot of all live sessions
func (r *Registry) GetAll() []*domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*domain.Session, 0, len(r.active))
	for _, s := range r.active {
		sessions = append(sessions, s)
	}
	return sessions
}

// End removes both the mirror row and the in-memory entry, returning the
// removed session if the agent was online.
func (r *Registry) End(ctx context.Context, agentID string) (*domain.Session, error) {
	log := logger.FromContext(ctx)

	r.mu.Lock()
	session, ok := r.active[agentID]
	delete(r.active, agentID)
	r.mu.Unlock()

	if !ok {
		return nil, nil
	}
	if err := r.repo.DeleteSession(ctx, agentID); err != nil {
		return session, err
	}
	log.Info(LogMsgSessionEnded, "agent_id", agentID)
	return session, nil
}

// OnlineCount returns the size of the in-memory map, the only authoritative
// answer to "who is online now".
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// Cleanup prunes mirror rows whose last_seen is older than the session
// timeout. It deliberately does not evict in-memory entries: liveness is
// governed by protocol traffic and process lifetime, not by this sweep.
func (r *Registry) Cleanup(ctx context.Context) error {
	log := logger.FromContext(ctx)

	cutoff := time.Now().Add(-r.timeout)
	pruned, err := r.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return err
	}
	if pruned > 0 {
		log.Info(LogMsgSessionsPruned, "count", pruned)
	}
	return nil
}
