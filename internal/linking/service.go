package linking

import (
	"context"
	"errors"
	"fmt"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/logger"
)

// IdentityService defines the identity operations linking needs
type IdentityService interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*domain.User, error)
	LinkDiscord(ctx context.Context, userID, discordID, username string) error
}

// Service upgrades guest accounts by binding an external Discord identity.
// The upgrade is one-way: once registered, an account never reverts to
// guest and never re-links to a different identity.
type Service interface {
	// Link binds the Discord identity to the world user named by agentID.
	Link(ctx context.Context, agentID, discordID, discordUsername string) (*domain.User, error)
}

type service struct {
	identity IdentityService
}

// NewService creates a new linking service
func NewService(identity IdentityService) Service {
	return &service{identity: identity}
}

func (s *service) Link(ctx context.Context, agentID, discordID, discordUsername string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	// A Discord account can back at most one world user.
	if existing, err := s.identity.GetByDiscordID(ctx, discordID); err == nil && existing != nil {
		if existing.ID == agentID {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: discord identity already bound to another traveler", domain.ErrAlreadyLinked)
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user, err := s.identity.GetUser(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !user.IsGuest {
		return nil, domain.ErrAlreadyLinked
	}

	if err := s.identity.LinkDiscord(ctx, agentID, discordID, discordUsername); err != nil {
		return nil, err
	}

	linked, err := s.identity.GetUser(ctx, agentID)
	if err != nil {
		return nil, err
	}
	log.Info(LogMsgLinked, "user_id", agentID, "discord_username", discordUsername)
	return linked, nil
}
