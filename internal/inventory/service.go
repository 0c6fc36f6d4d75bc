package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/repository"
)

// PassportProjection is the outbound shape of one stack: what the next
// world receives. Icon and type fall back to defaults when the attribute
// blob lacks them.
type PassportProjection struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Icon     string `json:"icon"`
	Type     string `json:"type"`
}

// SyncResult reports the outcome of one item in a batch sync. Applied is
// false for the failing item and for every item after it.
type SyncResult struct {
	Name    string
	Applied bool
	Err     error
}

// Service is the inventory ledger: it merges arriving belongings into the
// persistent store and produces outbound snapshots.
type Service interface {
	// AddItem inserts a new stack or merges into an existing one. A
	// quantity of zero is a no-op. The stack cap is a hard limit:
	// exceeding it fails without touching the stored row.
	AddItem(ctx context.Context, userID string, item domain.PassportItem, originWorld string) error

	// RemoveItem takes quantity from a stack, deleting the row when it
	// reaches exactly zero. Removing more than is held fails and leaves
	// the row unchanged.
	RemoveItem(ctx context.Context, userID, name string, quantity int) error

	// SyncFromPassport merges an arriving item list. Guests have their
	// prior inventory fully replaced first. Items apply in list order and
	// the batch stops at the first failure, keeping earlier successes:
	// best-effort by policy, with the per-item outcome reported back.
	SyncFromPassport(ctx context.Context, userID string, items []domain.PassportItem, originWorld string) ([]SyncResult, error)

	// PrepareForPassport builds the outbound snapshot. Soulbound stacks
	// are pinned to this world and never included.
	PrepareForPassport(ctx context.Context, userID string) ([]PassportProjection, error)

	// CanAddSlots reports whether the user can hold n more distinct items.
	CanAddSlots(ctx context.Context, userID string, n int) (bool, error)

	// ClearAll wipes every stack the user holds.
	ClearAll(ctx context.Context, userID string) error
}

type service struct {
	repo         repository.Inventory
	users        repository.User
	maxStackSize int
}

// NewService creates a new inventory service
func NewService(repo repository.Inventory, users repository.User, maxStackSize int) Service {
	return &service{repo: repo, users: users, maxStackSize: maxStackSize}
}

func (s *service) AddItem(ctx context.Context, userID string, item domain.PassportItem, originWorld string) error {
	if originWorld == "" {
		originWorld = "unknown"
	}
	quantity := int(item.Quantity)
	// Zero-quantity items pass validation but carry nothing; storing them
	// would violate the no-empty-stacks constraint on the inventory table.
	if quantity == 0 {
		return nil
	}

	existing, err := s.repo.GetItem(ctx, userID, item.Name)
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		row := &domain.InventoryItem{
			UserID:      userID,
			Name:        item.Name,
			Quantity:    quantity,
			Data:        item.Data,
			OriginWorld: originWorld,
			Soulbound:   item.Soulbound,
		}
		return s.repo.InsertItem(ctx, row)
	}

	merged := existing.Quantity + quantity
	if merged > s.maxStackSize {
		return fmt.Errorf("%w: %d > %d", domain.ErrStackLimitExceeded, merged, s.maxStackSize)
	}
	return s.repo.UpdateQuantity(ctx, userID, item.Name, merged)
}

func (s *service) RemoveItem(ctx context.Context, userID, name string, quantity int) error {
	existing, err := s.repo.GetItem(ctx, userID, name)
	if err != nil {
		return err
	}

	remaining := existing.Quantity - quantity
	if remaining < 0 {
		return fmt.Errorf("%w: have %d, want %d", domain.ErrInsufficientQuantity, existing.Quantity, quantity)
	}
	if remaining == 0 {
		return s.repo.DeleteItem(ctx, userID, name)
	}
	return s.repo.UpdateQuantity(ctx, userID, name, remaining)
}

func (s *service) SyncFromPassport(ctx context.Context, userID string, items []domain.PassportItem, originWorld string) ([]SyncResult, error) {
	log := logger.FromContext(ctx)

	// Guests carry no residual state between visits: clear and replace.
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsGuest {
		if err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	results := make([]SyncResult, 0, len(items))
	for i, item := range items {
		if err := s.AddItem(ctx, userID, item, originWorld); err != nil {
			log.Warn(LogMsgSyncStopped, "user_id", userID, "item", item.Name, "error", err)
			results = append(results, SyncResult{Name: item.Name, Err: err})
			for _, dropped := range items[i+1:] {
				results = append(results, SyncResult{Name: dropped.Name})
			}
			return results, nil
		}
		results = append(results, SyncResult{Name: item.Name, Applied: true})
	}
	return results, nil
}

func (s *service) PrepareForPassport(ctx context.Context, userID string) ([]PassportProjection, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	projections := make([]PassportProjection, 0, len(items))
	for _, item := range items {
		if item.Soulbound {
			continue
		}
		p := PassportProjection{
			Name:     item.Name,
			Quantity: item.Quantity,
			Icon:     domain.DefaultItemIcon,
			Type:     domain.DefaultItemType,
		}
		if icon, ok := item.Data["icon"].(string); ok && icon != "" {
			p.Icon = icon
		}
		if typ, ok := item.Data["type"].(string); ok && typ != "" {
			p.Type = typ
		}
		projections = append(projections, p)
	}
	return projections, nil
}

func (s *service) CanAddSlots(ctx context.Context, userID string, n int) (bool, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	count, err := s.repo.CountSlots(ctx, userID)
	if err != nil {
		return false, err
	}
	return count+n <= user.MaxSlots, nil
}

func (s *service) ClearAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAllForUser(ctx, userID)
}
