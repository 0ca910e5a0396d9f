package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
)

func TestService_SettleFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	orders := []*order.Order{
		unpaidOrder("A1", "50", t1),
		unpaidOrder("B2", "10", t1),
	}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListOrders(gomock.Any()).Return(orders, nil)
	repo.EXPECT().
		ApplyUpdates(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updates []ledger.Update) error {
			require.Len(t, updates, 1)
			assert.Equal(t, orders[0].ID, updates[0].OrderID)
			return nil
		})

	svc := ledger.NewService(repo)

	updates, err := svc.SettleFull(context.Background(), "A1")
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

func TestService_SettleFull_NoDebtSkipsApply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListOrders(gomock.Any()).Return(nil, nil)

	svc := ledger.NewService(repo)

	updates, err := svc.SettleFull(context.Background(), "A1")
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestService_SettlePartial_InvalidAmountTouchesNoStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: any repository call fails the test.
	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	for _, amount := range []string{"0", "-5"} {
		updates, err := svc.SettlePartial(context.Background(), "A1", decimal.RequireFromString(amount))
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
		assert.Nil(t, updates)
	}
}

func TestService_SettlePartial(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	orders := []*order.Order{
		unpaidOrder("A1", "30", t1),
		unpaidOrder("A1", "20", t1.Add(time.Hour)),
	}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListOrders(gomock.Any()).Return(orders, nil)
	repo.EXPECT().
		ApplyUpdates(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updates []ledger.Update) error {
			require.Len(t, updates, 2)
			require.NotNil(t, updates[0].IsPaid)
			require.NotNil(t, updates[1].Price)
			assert.Equal(t, "15", *updates[1].Price)
			return nil
		})

	svc := ledger.NewService(repo)

	updates, err := svc.SettlePartial(context.Background(), "A1", decimal.RequireFromString("35"))
	require.NoError(t, err)
	assert.Len(t, updates, 2)
}

func TestService_SettlePartial_ApplyErrorReturnsAttemptedUpdates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	orders := []*order.Order{unpaidOrder("A1", "30", t1)}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListOrders(gomock.Any()).Return(orders, nil)
	repo.EXPECT().ApplyUpdates(gomock.Any(), gomock.Any()).Return(errors.New("store unavailable"))

	svc := ledger.NewService(repo)

	updates, err := svc.SettlePartial(context.Background(), "A1", decimal.RequireFromString("10"))
	assert.Error(t, err)
	// The attempted batch comes back so the caller knows a re-read is needed.
	assert.Len(t, updates, 1)
}

func TestService_DebtSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListOrders(gomock.Any()).Return([]*order.Order{
		unpaidOrder("A1", "50", t1),
		unpaidOrder("A1", "30", t1.Add(time.Hour)),
	}, nil)

	svc := ledger.NewService(repo)

	summary, err := svc.DebtSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DebtorCount)
	assert.True(t, summary.TotalDebt.Equal(decimal.RequireFromString("80")))
}
