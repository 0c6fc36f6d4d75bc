package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/repository"
)

// Settings carries the account policy knobs from configuration.
type Settings struct {
	MaxInventorySlots int
	GuestMaxSlots     int
	GuestCanTrade     bool
	ReputationDefault float64
}

// Service resolves travelers to persistent user accounts and owns the
// guest lifecycle and reputation bookkeeping.
type Service interface {
	// GetOrCreateFromPassport resolves the passport's agent to a user,
	// creating a guest account on first contact. Idempotent: a repeat call
	// for a known agent only refreshes last_seen.
	GetOrCreateFromPassport(ctx context.Context, p *domain.Passport) (*domain.User, error)

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*domain.User, error)

	// GetReputation returns 0 for unknown users rather than an error; the
	// discovery path treats "no account yet" as zero standing.
	GetReputation(ctx context.Context, userID string) (float64, error)
	HasReputation(ctx context.Context, userID string, threshold float64) (bool, error)
	UpdateReputation(ctx context.Context, userID string, delta float64) error

	// LinkDiscord upgrades a guest to a registered user in place. The
	// transition is one-way and never reversed.
	LinkDiscord(ctx context.Context, userID, discordID, username string) error

	// CleanupGuest wipes a user's inventory if and only if they are still
	// a guest. Registered users keep their belongings between visits.
	CleanupGuest(ctx context.Context, userID string) error
}

type service struct {
	repo      repository.User
	inventory repository.Inventory
	settings  Settings
	cache     *userCache
}

// NewService creates a new identity service
func NewService(repo repository.User, inventory repository.Inventory, settings Settings) Service {
	return &service{
		repo:      repo,
		inventory: inventory,
		settings:  settings,
		cache:     newUserCache(DefaultCacheSize, DefaultCacheTTL),
	}
}

func (s *service) GetOrCreateFromPassport(ctx context.Context, p *domain.Passport) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.GetUser(ctx, p.AgentID)
	if err == nil {
		if err := s.repo.TouchLastSeen(ctx, user.ID); err != nil {
			log.Warn(LogMsgLastSeenFailed, "user_id", user.ID, "error", err)
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	username := p.AgentName
	if username == "" {
		username = domain.DefaultUsername
	}

	// All new identities are guests; registration only happens later via
	// LinkDiscord.
	user = &domain.User{
		ID:         p.AgentID,
		Username:   username,
		IsGuest:    true,
		MaxSlots:   s.settings.GuestMaxSlots,
		CanTrade:   s.settings.GuestCanTrade,
		Reputation: s.settings.ReputationDefault,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.cache.Set(user)

	log.Info(LogMsgUserCreated, "user_id", user.ID, "username", username)
	return user, nil
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if user, ok := s.cache.Get(userID); ok {
		return user, nil
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(user)
	return user, nil
}

func (s *service) GetByDiscordID(ctx context.Context, discordID string) (*domain.User, error) {
	return s.repo.GetUserByDiscordID(ctx, discordID)
}

func (s *service) GetReputation(ctx context.Context, userID string) (float64, error) {
	rep, err := s.repo.GetReputation(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return rep, nil
}

func (s *service) HasReputation(ctx context.Context, userID string, threshold float64) (bool, error) {
	rep, err := s.GetReputation(ctx, userID)
	if err != nil {
		return false, err
	}
	return rep >= threshold, nil
}

func (s *service) UpdateReputation(ctx context.Context, userID string, delta float64) error {
	if err := s.repo.AdjustReputation(ctx, userID, delta); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

func (s *service) LinkDiscord(ctx context.Context, userID, discordID, username string) error {
	log := logger.FromContext(ctx)

	if err := s.repo.LinkDiscord(ctx, userID, discordID, username, s.settings.MaxInventorySlots); err != nil {
		return err
	}
	s.cache.Invalidate(userID)

	log.Info(LogMsgIdentityLinked, "user_id", userID, "username", username)
	return nil
}

func (s *service) CleanupGuest(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.IsGuest {
		return nil
	}

	if err := s.inventory.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to wipe guest inventory: %w", err)
	}
	log.Info(LogMsgGuestCleanedUp, "user_id", userID)
	return nil
}
