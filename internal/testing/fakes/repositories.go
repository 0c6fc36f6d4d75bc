// Package fakes provides stateful in-memory implementations of the
// repository interfaces for integration-style unit tests. They enforce the
// same invariants as the postgres implementations (no zero-quantity rows,
// one-way linking) so service tests exercise realistic storage behavior.
package fakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/repository"
)

// UserRepository is an in-memory repository.User.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User

	// FailCreate forces CreateUser to return this error when set.
	FailCreate error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Seed inserts a user directly, bypassing CreateUser bookkeeping.
func (f *UserRepository) Seed(user *domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
}

func (f *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *UserRepository) GetUserByDiscordID(ctx context.Context, discordID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.DiscordID == discordID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if f.FailCreate != nil {
		return f.FailCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	copied.CreatedAt = time.Now()
	copied.LastSeen = copied.CreatedAt
	f.users[user.ID] = &copied
	return nil
}

func (f *UserRepository) TouchLastSeen(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.LastSeen = time.Now()
	return nil
}

func (f *UserRepository) LinkDiscord(ctx context.Context, userID, discordID, username string, maxSlots int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.DiscordID != "" {
		return domain.ErrAlreadyLinked
	}
	user.DiscordID = discordID
	user.Username = username
	user.IsGuest = false
	user.MaxSlots = maxSlots
	user.CanTrade = true
	return nil
}

func (f *UserRepository) GetReputation(ctx context.Context, userID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return user.Reputation, nil
}

func (f *UserRepository) AdjustReputation(ctx context.Context, userID string, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Reputation += delta
	return nil
}

type itemKey struct {
	userID string
	name   string
}

// InventoryRepository is an in-memory repository.Inventory.
type InventoryRepository struct {
	mu    sync.Mutex
	items map[itemKey]*domain.InventoryItem

	// FailInsertName forces InsertItem to fail for a specific item name,
	// for exercising the stop-at-first-failure sync path.
	FailInsertName string
	FailInsertErr  error
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{items: make(map[itemKey]*domain.InventoryItem)}
}

func (f *InventoryRepository) GetItem(ctx context.Context, userID, name string) (*domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemKey{userID, name}]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *InventoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.InventoryItem
	for key, item := range f.items {
		if key.userID == userID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *InventoryRepository) InsertItem(ctx context.Context, item *domain.InventoryItem) error {
	if f.FailInsertErr != nil && item.Name == f.FailInsertName {
		return f.FailInsertErr
	}
	// Mirrors the CHECK (quantity > 0) constraint on the inventory table.
	if item.Quantity <= 0 {
		return fmt.Errorf("failed to insert item: quantity must be positive")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *item
	copied.UpdatedAt = time.Now()
	f.items[itemKey{item.UserID, item.Name}] = &copied
	return nil
}

func (f *InventoryRepository) UpdateQuantity(ctx context.Context, userID, name string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("failed to update quantity: quantity must be positive")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemKey{userID, name}]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	return nil
}

func (f *InventoryRepository) DeleteItem(ctx context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemKey{userID, name})
	return nil
}

func (f *InventoryRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.items {
		if key.userID == userID {
			delete(f.items, key)
		}
	}
	return nil
}

func (f *InventoryRepository) CountSlots(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key := range f.items {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}

// SessionRepository is an in-memory repository.Session.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session // keyed by agent ID
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*domain.Session)}
}

func (f *SessionRepository) InsertSession(ctx context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	// Match the storage defaults: timestamps are set on insert.
	if copied.ConnectedAt.IsZero() {
		copied.ConnectedAt = time.Now()
	}
	if copied.LastSeen.IsZero() {
		copied.LastSeen = time.Now()
	}
	f.sessions[session.AgentID] = &copied
	return nil
}

func (f *SessionRepository) TouchSession(ctx context.Context, agentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[agentID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.LastSeen = time.Now()
	return nil
}

func (f *SessionRepository) DeleteSession(ctx context.Context, agentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, agentID)
	return nil
}

func (f *SessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pruned int64
	for agentID, session := range f.sessions {
		if session.LastSeen.Before(cutoff) {
			delete(f.sessions, agentID)
			pruned++
		}
	}
	return pruned, nil
}

// Count reports how many mirror rows exist.
func (f *SessionRepository) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// PortalRepository is an in-memory repository.Portal.
type PortalRepository struct {
	mu      sync.Mutex
	portals []domain.Portal

	// FailList forces ListPublic to return this error when set.
	FailList error
}

func NewPortalRepository(portals ...domain.Portal) *PortalRepository {
	return &PortalRepository{portals: portals}
}

func (f *PortalRepository) ListPublic(ctx context.Context) ([]domain.Portal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailList != nil {
		return nil, f.FailList
	}
	var out []domain.Portal
	for _, p := range f.portals {
		if p.IsPublic {
			out = append(out, p)
		}
	}
	return out, nil
}

// AuditLogRepository is an in-memory repository.AuditLog.
type AuditLogRepository struct {
	mu      sync.Mutex
	entries []repository.AuditLogEntry
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (f *AuditLogRepository) LogEvent(ctx context.Context, eventType string, userID *string, details map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, repository.AuditLogEntry{
		ID:        int64(len(f.entries) + 1),
		EventType: eventType,
		UserID:    userID,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *AuditLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	var kept []repository.AuditLogEntry
	var deleted int64
	for _, entry := range f.entries {
		if entry.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	f.entries = kept
	return deleted, nil
}

// Entries returns a snapshot of everything logged so far.
func (f *AuditLogRepository) Entries() []repository.AuditLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.AuditLogEntry, len(f.entries))
	copy(out, f.entries)
	return out
}
