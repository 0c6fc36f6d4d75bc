package repository

import (
	"context"

	"github.com/wandermesh/waystation/internal/domain"
)

// Inventory defines the interface for item stack persistence. Rows are
// keyed by (user, item name); a quantity of zero is expressed by deleting
// the row, never by storing it.
type Inventory interface {
	GetItem(ctx context.Context, userID, name string) (*domain.InventoryItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.InventoryItem, error)
	InsertItem(ctx context.Context, item *domain.InventoryItem) error
	UpdateQuantity(ctx context.Context, userID, name string, quantity int) error
	DeleteItem(ctx context.Context, userID, name string) error
	DeleteAllForUser(ctx context.Context, userID string) error
	CountSlots(ctx context.Context, userID string) (int, error)
}
