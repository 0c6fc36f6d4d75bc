package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wandermesh/waystation/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, is_guest, max_slots, can_trade, reputation, COALESCE(discord_id, ''), created_at, last_seen`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.IsGuest, &u.MaxSlots, &u.CanTrade, &u.Reputation, &u.DiscordID, &u.CreatedAt, &u.LastSeen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetUserByID fetches a user by their agent ID
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

// GetUserByDiscordID fetches a user by their linked external identity
func (r *UserRepository) GetUserByDiscordID(ctx context.Context, discordID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE discord_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, discordID))
}

// CreateUser inserts a new user record
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, is_guest, max_slots, can_trade, reputation)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, last_seen
	`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.IsGuest, user.MaxSlots, user.CanTrade, user.Reputation,
	).Scan(&user.CreatedAt, &user.LastSeen)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// TouchLastSeen refreshes the user's last_seen timestamp
func (r *UserRepository) TouchLastSeen(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_seen = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to touch last_seen: %w", err)
	}
	return nil
}

// LinkDiscord upgrades a guest to a registered user in place. The WHERE
// clause keeps the transition one-way: a linked account is never demoted
// and never re-linked to a different identity.
func (r *UserRepository) LinkDiscord(ctx context.Context, userID, discordID, username string, maxSlots int) error {
	query := `
		UPDATE users
		SET discord_id = $1, username = $2, is_guest = FALSE, max_slots = $3, can_trade = TRUE
		WHERE id = $4 AND discord_id IS NULL
	`
	tag, err := r.db.Exec(ctx, query, discordID, username, maxSlots, userID)
	if err != nil {
		return fmt.Errorf("failed to link discord identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyLinked
	}
	return nil
}

// GetReputation returns the user's current reputation
func (r *UserRepository) GetReputation(ctx context.Context, userID string) (float64, error) {
	var rep float64
	err := r.db.QueryRow(ctx, `SELECT reputation FROM users WHERE id = $1`, userID).Scan(&rep)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get reputation: %w", err)
	}
	return rep, nil
}

// AdjustReputation applies an additive delta, which may be negative.
// No floor or ceiling is enforced.
func (r *UserRepository) AdjustReputation(ctx context.Context, userID string, delta float64) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET reputation = reputation + $1 WHERE id = $2`, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust reputation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
