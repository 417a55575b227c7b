package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/core/checkoutlog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, repo *UserRepository, name string) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:        uuid.NewString(),
		Username:  name,
		Email:     name + "@example.com",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndAddress(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	u := createUser(t, repo, "ana")

	dup := &entity.User{ID: uuid.NewString(), Username: "ana", Email: "other@example.com", CreatedAt: time.Now()}
	assert.ErrorIs(t, repo.Create(ctx, dup), entity.ErrConflict)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	first := entity.Address{Street: "1 Main", City: "Austin", State: "TX", ZipCode: "78701", Country: "US"}
	stored, err := repo.SetAddressIfEmpty(ctx, u.ID, first)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = repo.SetAddressIfEmpty(ctx, u.ID, entity.Address{Street: "2 Elm"})
	require.NoError(t, err)
	assert.False(t, stored)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Address)
	assert.Equal(t, first, *got.Address)
}

func TestCartRepository_AddItemMerges(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(openTestDB(t))

	cart, err := repo.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	again, err := repo.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	first, err := repo.AddItem(ctx, cart.ID, "P", 2)
	require.NoError(t, err)
	second, err := repo.AddItem(ctx, cart.ID, "P", 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Quantity)

	items, err := repo.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartRepository_ConcurrentAddsKeepEveryIncrement(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(openTestDB(t))
	cart, err := repo.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddItem(ctx, cart.ID, "P", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := repo.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Quantity)
}

func TestCartRepository_ItemLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(openTestDB(t))

	_, err := repo.FindCartByUser(ctx, "nobody")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	cart, err := repo.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	item, err := repo.AddItem(ctx, cart.ID, "P", 1)
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, cart.ID, "Q", 3)
	require.NoError(t, err)

	updated, err := repo.UpdateItemQuantity(ctx, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	_, err = repo.UpdateItemQuantity(ctx, "missing", 1)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, repo.RemoveItem(ctx, item.ID))
	assert.ErrorIs(t, repo.RemoveItem(ctx, item.ID), entity.ErrNotFound)
	_, err = repo.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, repo.ClearItems(ctx, cart.ID))
	items, err := repo.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	orders := NewOrderRepository(db)
	u := createUser(t, users, "ana")

	addr := entity.Address{Street: "1 Main", City: "Austin", State: "TX", ZipCode: "78701", Country: "US"}
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	payID := "PAY-1-abc"

	var ids []string
	for i := range 3 {
		id := uuid.NewString()
		ids = append(ids, id)
		o := &entity.Order{
			ID:              id,
			UserID:          u.ID,
			Items:           []entity.OrderItem{{ID: uuid.NewString(), ProductID: "1", Quantity: 2, Price: decimal.RequireFromString("10.50")}},
			Subtotal:        decimal.RequireFromString("21"),
			Shipping:        decimal.RequireFromString("10"),
			Tax:             decimal.RequireFromString("1.68"),
			Total:           decimal.RequireFromString("32.68"),
			ShippingAddress: addr,
			BillingAddress:  addr,
			PaymentMethod:   "card",
			Status:          entity.OrderStatusConfirmed,
			PaymentStatus:   entity.PaymentStatusPaid,
			PaymentID:       &payID,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, orders.Create(ctx, o))
	}

	got, err := orders.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("32.68")))
	assert.Equal(t, addr, got.ShippingAddress)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, payID, *got.PaymentID)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, ids[0], got.Items[0].OrderID)

	page, total, err := orders.ListByUser(ctx, u.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)
	assert.Len(t, page[0].Items, 1)

	_, err = orders.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestOrderRepository_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	u := createUser(t, NewUserRepository(db), "ana")
	orders := NewOrderRepository(db)

	itemID := uuid.NewString()
	o := &entity.Order{
		ID:     uuid.NewString(),
		UserID: u.ID,
		Items: []entity.OrderItem{
			{ID: itemID, ProductID: "1", Quantity: 1, Price: decimal.NewFromInt(1)},
			{ID: itemID, ProductID: "2", Quantity: 1, Price: decimal.NewFromInt(1)},
		},
		Status:        entity.OrderStatusConfirmed,
		PaymentStatus: entity.PaymentStatusPaid,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.Error(t, orders.Create(ctx, o))

	_, err := orders.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	u := createUser(t, NewUserRepository(db), "ana")
	orders := NewOrderRepository(db)

	o := &entity.Order{
		ID:            uuid.NewString(),
		UserID:        u.ID,
		Status:        entity.OrderStatusFailed,
		PaymentStatus: entity.PaymentStatusFailed,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, orders.Create(ctx, o))

	got, err := orders.UpdateStatus(ctx, o.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)
	assert.Equal(t, entity.PaymentStatusFailed, got.PaymentStatus)
	assert.Nil(t, got.PaymentID)

	_, err = orders.UpdateStatus(ctx, "missing", entity.OrderStatusShipped)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCheckoutLogRepository_AppendHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewCheckoutLogRepository(openTestDB(t))

	require.NoError(t, repo.Append(ctx, checkoutlog.NewEntry(ctx, "c1", "u1", checkoutlog.StatusStarted, "")))
	require.NoError(t, repo.Append(ctx, checkoutlog.NewEntry(ctx, "c1", "u1", checkoutlog.StatusFailed, "payment", "declined")))
	require.NoError(t, repo.Append(ctx, checkoutlog.NewEntry(ctx, "c2", "u1", checkoutlog.StatusStarted, "")))

	history, err := repo.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, checkoutlog.StatusStarted, history[0].Status)
	assert.Empty(t, history[0].Errors)
	assert.Equal(t, "payment", history[1].Step)
	assert.Equal(t, []string{"declined"}, history[1].Errors)
}
