package repository

import (
	"context"

	"github.com/wandermesh/waystation/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByDiscordID(ctx context.Context, discordID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	TouchLastSeen(ctx context.Context, userID string) error

	// LinkDiscord upgrades a guest in place: sets the external identity,
	// clears the guest flag, raises the slot cap and enables trading.
	LinkDiscord(ctx context.Context, userID, discordID, username string, maxSlots int) error

	GetReputation(ctx context.Context, userID string) (float64, error)
	AdjustReputation(ctx context.Context, userID string, delta float64) error
}
