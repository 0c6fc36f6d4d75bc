package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wandermesh/waystation/internal/domain"
)

// InventoryRepository implements the inventory repository for PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func scanInventoryItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	var rawData []byte
	err := row.Scan(&item.UserID, &item.Name, &item.Quantity, &rawData, &item.OriginWorld, &item.Soulbound, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &item.Data); err != nil {
			return nil, fmt.Errorf("failed to decode item data: %w", err)
		}
	}
	return &item, nil
}

// GetItem fetches one stack by (user, item name)
func (r *InventoryRepository) GetItem(ctx context.Context, userID, name string) (*domain.InventoryItem, error) {
	query := `
		SELECT user_id, item_name, quantity, item_data, origin_world, soulbound, updated_at
		FROM inventory WHERE user_id = $1 AND item_name = $2
	`
	return scanInventoryItem(r.db.QueryRow(ctx, query, userID, name))
}

// ListByUser returns all stacks for a user, ordered by item name
func (r *InventoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	query := `
		SELECT user_id, item_name, quantity, item_data, origin_world, soulbound, updated_at
		FROM inventory WHERE user_id = $1 ORDER BY item_name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// InsertItem creates a new stack
func (r *InventoryRepository) InsertItem(ctx context.Context, item *domain.InventoryItem) error {
	data, err := json.Marshal(item.Data)
	if err != nil {
		return fmt.Errorf("failed to encode item data: %w", err)
	}
	if item.Data == nil {
		data = []byte("{}")
	}
	query := `
		INSERT INTO inventory (user_id, item_name, quantity, item_data, origin_world, soulbound)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.Exec(ctx, query, item.UserID, item.Name, item.Quantity, data, item.OriginWorld, item.Soulbound)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing stack
func (r *InventoryRepository) UpdateQuantity(ctx context.Context, userID, name string, quantity int) error {
	query := `
		UPDATE inventory SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND item_name = $3
	`
	tag, err := r.db.Exec(ctx, query, quantity, userID, name)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// DeleteItem removes a stack entirely
func (r *InventoryRepository) DeleteItem(ctx context.Context, userID, name string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE user_id = $1 AND item_name = $2`, userID, name)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

// DeleteAllForUser wipes a user's inventory
func (r *InventoryRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear inventory: %w", err)
	}
	return nil
}

// CountSlots returns the number of distinct stacks a user holds
func (r *InventoryRepository) CountSlots(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	return count, nil
}
