package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermesh/waystation/internal/domain"
	"github.com/wandermesh/waystation/internal/testing/fakes"
)

const testMaxStack = 999

func newTestService(t *testing.T) (Service, *fakes.InventoryRepository, *fakes.UserRepository) {
	t.Helper()
	invRepo := fakes.NewInventoryRepository()
	userRepo := fakes.NewUserRepository()
	return NewService(invRepo, userRepo, testMaxStack), invRepo, userRepo
}

func seedUser(repo *fakes.UserRepository, id string, guest bool) {
	repo.Seed(&domain.User{ID: id, Username: "tester", IsGuest: guest, MaxSlots: 8})
}

func TestAddItem_NewStack(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()

	err := svc.AddItem(ctx, "u1", domain.PassportItem{Name: "sword", Quantity: 2}, "meadow")
	require.NoError(t, err)

	item, err := invRepo.GetItem(ctx, "u1", "sword")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "meadow", item.OriginWorld)
}

func TestAddItem_MergesIntoExistingStack(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 10}, "meadow"))
	require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 5}, "meadow"))

	item, err := invRepo.GetItem(ctx, "u1", "coin")
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)

	count, err := invRepo.CountSlots(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddItem_StackCapBoundary(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 990}, "meadow"))

	t.Run("merge up to exactly the cap succeeds", func(t *testing.T) {
		err := svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 9}, "meadow")
		require.NoError(t, err)

		item, err := invRepo.GetItem(ctx, "u1", "coin")
		require.NoError(t, err)
		assert.Equal(t, testMaxStack, item.Quantity)
	})

	t.Run("merge past the cap fails and leaves the row unchanged", func(t *testing.T) {
		err := svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 1}, "meadow")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrStackLimitExceeded))

		item, err := invRepo.GetItem(ctx, "u1", "coin")
		require.NoError(t, err)
		assert.Equal(t, testMaxStack, item.Quantity)
	})
}

func TestAddItem_UnknownOriginWorld(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "rock", Quantity: 1}, ""))

	item, err := invRepo.GetItem(ctx, "u1", "rock")
	require.NoError(t, err)
	assert.Equal(t, "unknown", item.OriginWorld)
}

func TestAddItem_ZeroQuantityIsNoOp(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()

	t.Run("no row is created", func(t *testing.T) {
		require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "dust", Quantity: 0}, "meadow"))
		_, err := invRepo.GetItem(ctx, "u1", "dust")
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	})

	t.Run("existing stack is left unchanged", func(t *testing.T) {
		require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 7}, "meadow"))
		require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 0}, "meadow"))

		item, err := invRepo.GetItem(ctx, "u1", "coin")
		require.NoError(t, err)
		assert.Equal(t, 7, item.Quantity)
	})

	t.Run("the store itself rejects empty stacks", func(t *testing.T) {
		err := invRepo.InsertItem(ctx, &domain.InventoryItem{UserID: "u1", Name: "void", Quantity: 0})
		require.Error(t, err)
		_, err = invRepo.GetItem(ctx, "u1", "void")
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	})
}

func TestRemoveItem(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "coin", Quantity: 10}, "meadow"))

	t.Run("partial removal leaves the remainder", func(t *testing.T) {
		require.NoError(t, svc.RemoveItem(ctx, "u1", "coin", 4))
		item, err := invRepo.GetItem(ctx, "u1", "coin")
		require.NoError(t, err)
		assert.Equal(t, 6, item.Quantity)
	})

	t.Run("removing more than held fails without touching the row", func(t *testing.T) {
		err := svc.RemoveItem(ctx, "u1", "coin", 7)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInsufficientQuantity))

		item, err := invRepo.GetItem(ctx, "u1", "coin")
		require.NoError(t, err)
		assert.Equal(t, 6, item.Quantity)
	})

	t.Run("removal to exactly zero deletes the row", func(t *testing.T) {
		require.NoError(t, svc.RemoveItem(ctx, "u1", "coin", 6))
		_, err := invRepo.GetItem(ctx, "u1", "coin")
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	})

	t.Run("removing a missing item fails", func(t *testing.T) {
		err := svc.RemoveItem(ctx, "u1", "ghost", 1)
		assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	})
}

func TestSyncFromPassport_GuestClearAndReplace(t *testing.T) {
	svc, invRepo, userRepo := newTestService(t)
	ctx := context.Background()
	seedUser(userRepo, "guest-1", true)

	require.NoError(t, svc.AddItem(ctx, "guest-1", domain.PassportItem{Name: "stale", Quantity: 3}, "here"))

	results, err := svc.SyncFromPassport(ctx, "guest-1", []domain.PassportItem{
		{Name: "sword", Quantity: 1},
		{Name: "coin", Quantity: 50},
	}, "meadow")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Applied)
	assert.True(t, results[1].Applied)

	// The prior stack must be gone, replaced by the arriving list.
	_, err = invRepo.GetItem(ctx, "guest-1", "stale")
	assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	count, err := invRepo.CountSlots(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSyncFromPassport_RegisteredUserMerges(t *testing.T) {
	svc, invRepo, userRepo := newTestService(t)
	ctx := context.Background()
	seedUser(userRepo, "reg-1", false)

	require.NoError(t, svc.AddItem(ctx, "reg-1", domain.PassportItem{Name: "coin", Quantity: 100}, "here"))

	results, err := svc.SyncFromPassport(ctx, "reg-1", []domain.PassportItem{
		{Name: "coin", Quantity: 25},
	}, "meadow")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Applied)

	item, err := invRepo.GetItem(ctx, "reg-1", "coin")
	require.NoError(t, err)
	assert.Equal(t, 125, item.Quantity)
}

func TestSyncFromPassport_StopsAtFirstFailure(t *testing.T) {
	svc, invRepo, userRepo := newTestService(t)
	ctx := context.Background()
	seedUser(userRepo, "reg-1", false)

	invRepo.FailInsertName = "cursed"
	invRepo.FailInsertErr = errors.New("storage down")

	results, err := svc.SyncFromPassport(ctx, "reg-1", []domain.PassportItem{
		{Name: "sword", Quantity: 1},
		{Name: "cursed", Quantity: 1},
		{Name: "coin", Quantity: 9},
	}, "meadow")
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Earlier successes stick; the failing item and everything after it
	// are reported unapplied.
	assert.True(t, results[0].Applied)
	assert.False(t, results[1].Applied)
	assert.Error(t, results[1].Err)
	assert.False(t, results[2].Applied)
	assert.NoError(t, results[2].Err)

	_, err = invRepo.GetItem(ctx, "reg-1", "sword")
	assert.NoError(t, err)
	_, err = invRepo.GetItem(ctx, "reg-1", "coin")
	assert.True(t, errors.Is(err, domain.ErrItemNotFound))
}

func TestSyncFromPassport_ZeroQuantityMidBatch(t *testing.T) {
	svc, invRepo, userRepo := newTestService(t)
	ctx := context.Background()
	seedUser(userRepo, "reg-1", false)

	// A zero-quantity item is valid passport input but must not abort the
	// batch or leave an empty stack behind.
	results, err := svc.SyncFromPassport(ctx, "reg-1", []domain.PassportItem{
		{Name: "sword", Quantity: 1},
		{Name: "dust", Quantity: 0},
		{Name: "coin", Quantity: 9},
	}, "meadow")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Applied)
		assert.NoError(t, r.Err)
	}

	_, err = invRepo.GetItem(ctx, "reg-1", "dust")
	assert.True(t, errors.Is(err, domain.ErrItemNotFound))
	item, err := invRepo.GetItem(ctx, "reg-1", "coin")
	require.NoError(t, err)
	assert.Equal(t, 9, item.Quantity)
}

func TestSyncFromPassport_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.SyncFromPassport(context.Background(), "nobody", nil, "meadow")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestPrepareForPassport(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, invRepo.InsertItem(ctx, &domain.InventoryItem{
		UserID: "u1", Name: "sword", Quantity: 1,
		Data: map[string]interface{}{"icon": "⚔️", "type": "weapon"},
	}))
	require.NoError(t, invRepo.InsertItem(ctx, &domain.InventoryItem{
		UserID: "u1", Name: "coin", Quantity: 42,
	}))
	require.NoError(t, invRepo.InsertItem(ctx, &domain.InventoryItem{
		UserID: "u1", Name: "keepsake", Quantity: 1, Soulbound: true,
	}))

	projections, err := svc.PrepareForPassport(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, projections, 2, "soulbound stacks stay home")

	byName := map[string]PassportProjection{}
	for _, p := range projections {
		byName[p.Name] = p
	}
	assert.Equal(t, "⚔️", byName["sword"].Icon)
	assert.Equal(t, "weapon", byName["sword"].Type)
	assert.Equal(t, domain.DefaultItemIcon, byName["coin"].Icon)
	assert.Equal(t, domain.DefaultItemType, byName["coin"].Type)
	assert.Equal(t, 42, byName["coin"].Quantity)
	assert.NotContains(t, byName, "keepsake")
}

func TestRoundTrip_PrepareThenSync(t *testing.T) {
	ctx := context.Background()

	departing, depItems, depUsers := newTestService(t)
	seedUser(depUsers, "traveler", false)
	require.NoError(t, departing.AddItem(ctx, "traveler", domain.PassportItem{Name: "sword", Quantity: 1}, "here"))
	require.NoError(t, departing.AddItem(ctx, "traveler", domain.PassportItem{Name: "coin", Quantity: 120}, "here"))
	require.NoError(t, depItems.InsertItem(ctx, &domain.InventoryItem{
		UserID: "traveler", Name: "keepsake", Quantity: 1, Soulbound: true,
	}))

	snapshot, err := departing.PrepareForPassport(ctx, "traveler")
	require.NoError(t, err)

	// The snapshot shape is what travels; replay it into another world.
	carried := make([]domain.PassportItem, 0, len(snapshot))
	for _, p := range snapshot {
		carried = append(carried, domain.PassportItem{Name: p.Name, Quantity: float64(p.Quantity)})
	}

	arriving, arrItems, arrUsers := newTestService(t)
	seedUser(arrUsers, "traveler", false)

	results, err := arriving.SyncFromPassport(ctx, "traveler", carried, "elsewhere")
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Applied)
	}

	// Non-soulbound stacks arrive intact; the soulbound one stayed home.
	arrived, err := arrItems.ListByUser(ctx, "traveler")
	require.NoError(t, err)
	require.Len(t, arrived, 2)
	byName := map[string]int{}
	for _, item := range arrived {
		byName[item.Name] = item.Quantity
	}
	assert.Equal(t, 1, byName["sword"])
	assert.Equal(t, 120, byName["coin"])
	assert.NotContains(t, byName, "keepsake")
}

func TestCanAddSlots(t *testing.T) {
	svc, invRepo, userRepo := newTestService(t)
	ctx := context.Background()
	seedUser(userRepo, "u1", true) // MaxSlots 8

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		require.NoError(t, invRepo.InsertItem(ctx, &domain.InventoryItem{UserID: "u1", Name: name, Quantity: 1}))
	}

	ok, err := svc.CanAddSlots(ctx, "u1", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAddSlots(ctx, "u1", 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearAll(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "a", Quantity: 1}, "w"))
	require.NoError(t, svc.AddItem(ctx, "u1", domain.PassportItem{Name: "b", Quantity: 1}, "w"))
	require.NoError(t, svc.ClearAll(ctx, "u1"))

	count, err := invRepo.CountSlots(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
