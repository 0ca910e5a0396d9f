package jsonfile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozank/kapici/internal/apartment"
	"github.com/ozank/kapici/internal/auth"
	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	return store
}

func testOrder(apartmentNumber string) *order.Order {
	now := time.Now().UTC().Truncate(time.Second)

	return &order.Order{
		ID:              uuid.New(),
		ApartmentNumber: apartmentNumber,
		OrderText:       "2 ekmek, 1 süt",
		ContactInfo:     "0532 000 00 00",
		Type:            order.TypeMorning,
		Status:          order.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestStore_OrderRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o := testOrder("A1")
	require.NoError(t, store.CreateOrder(ctx, o))

	got, err := store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)

	o.Status = order.StatusCompleted
	o.Price = "12.50"
	o.IsPaid = true
	require.NoError(t, store.UpdateOrder(ctx, o))

	got, err = store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
	assert.Equal(t, "12.50", got.Price)
	assert.True(t, got.IsPaid)

	require.NoError(t, store.DeleteOrder(ctx, o.ID))

	_, err = store.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestStore_GetOrder_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestStore_ListApartmentOrders_FiltersByApartment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateOrder(ctx, testOrder("A1")))
	require.NoError(t, store.CreateOrder(ctx, testOrder("B3")))
	require.NoError(t, store.CreateOrder(ctx, testOrder("A1")))

	orders, err := store.ListApartmentOrders(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	for _, o := range orders {
		assert.Equal(t, "A1", o.ApartmentNumber)
	}
}

func TestStore_ApplyUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testOrder("A1")
	second := testOrder("A1")
	require.NoError(t, store.CreateOrder(ctx, first))
	require.NoError(t, store.CreateOrder(ctx, second))

	paid := true
	residual := "7.25"

	err := store.ApplyUpdates(ctx, []ledger.Update{
		{OrderID: first.ID, IsPaid: &paid},
		{OrderID: second.ID, Price: &residual},
	})
	require.NoError(t, err)

	got, err := store.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)

	got, err = store.GetOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.25", got.Price)
}

func TestStore_ApplyUpdates_KeepsEarlierUpdatesOnMissingOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o := testOrder("A1")
	require.NoError(t, store.CreateOrder(ctx, o))

	paid := true

	err := store.ApplyUpdates(ctx, []ledger.Update{
		{OrderID: o.ID, IsPaid: &paid},
		{OrderID: uuid.New(), IsPaid: &paid},
	})
	require.ErrorIs(t, err, order.ErrNotFound)

	got, err := store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid, "update before the failing one should be persisted")
}

func TestStore_Apartments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordApartment(ctx, apartment.Apartment{Number: "A1", ContactInfo: "0532 000 00 00"}))
	require.NoError(t, store.RecordApartment(ctx, apartment.Apartment{Number: "A1", ContactInfo: "duplicate"}))
	require.NoError(t, store.RecordApartment(ctx, apartment.Apartment{Number: "B2"}))

	apts, err := store.ListApartments(ctx)
	require.NoError(t, err)
	require.Len(t, apts, 2)
	assert.Equal(t, "0532 000 00 00", apts[0].ContactInfo, "first record wins on duplicate number")
}

func TestStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx, "A1")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	user := &auth.User{
		ID:              uuid.New(),
		ApartmentNumber: "A1",
		PasswordHash:    "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUser(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, user, got)
}
