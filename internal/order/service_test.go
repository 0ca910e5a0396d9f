package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ozank/kapici/internal/order"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params order.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *order.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: order.CreateParams{
					ApartmentNumber: "a1",
					OrderText:       "2 kg tomatoes, 1 bread",
					ContactInfo:     "0555 000 00 00",
				},
			},
			setupMock: func(m *order.MockRepository) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						assert.Equal(t, "A1", o.ApartmentNumber)
						assert.Equal(t, order.StatusPending, o.Status)
						assert.Empty(t, o.Price)
						assert.NotEmpty(t, o.Type)
						return nil
					})
			},
		},
		{
			name: "TrashCollection",
			args: args{
				params: order.CreateParams{
					ApartmentNumber:   "B5",
					OrderText:         "trash pickup",
					IsTrashCollection: true,
				},
			},
			setupMock: func(m *order.MockRepository) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						assert.True(t, o.IsTrashCollection)
						return nil
					})
			},
		},
		{
			name:    "MissingApartment",
			args:    args{params: order.CreateParams{OrderText: "bread"}},
			wantErr: order.ErrMissingFields,
		},
		{
			name:    "MissingText",
			args:    args{params: order.CreateParams{ApartmentNumber: "A1", OrderText: "   "}},
			wantErr: order.ErrMissingFields,
		},
		{
			name: "RepoError",
			args: args{
				params: order.CreateParams{ApartmentNumber: "A1", OrderText: "bread"},
			},
			setupMock: func(m *order.MockRepository) {
				m.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					Return(errors.New("store down"))
			},
			wantErr: errors.New("store down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := order.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := order.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Complete(t *testing.T) {
	type testCase struct {
		name      string
		price     string
		isPaid    bool
		setupMock func(m *order.MockRepository, id uuid.UUID)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "PaidUpFront",
			price:  "50",
			isPaid: true,
			setupMock: func(m *order.MockRepository, id uuid.UUID) {
				m.EXPECT().GetOrder(gomock.Any(), id).
					Return(&order.Order{ID: id, Status: order.StatusPending}, nil)
				m.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						assert.Equal(t, order.StatusCompleted, o.Status)
						assert.Equal(t, "50", o.Price)
						assert.True(t, o.IsPaid)
						return nil
					})
			},
		},
		{
			name:   "UnpaidBecomesDebt",
			price:  "12.50",
			isPaid: false,
			setupMock: func(m *order.MockRepository, id uuid.UUID) {
				m.EXPECT().GetOrder(gomock.Any(), id).
					Return(&order.Order{ID: id, Status: order.StatusPending}, nil)
				m.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						assert.Equal(t, "12.50", o.Price)
						assert.False(t, o.IsPaid)
						return nil
					})
			},
		},
		{
			// The entered text is stored verbatim: "7.00" must not come
			// back as "7".
			name:   "TrailingZerosKept",
			price:  " 7.00 ",
			isPaid: true,
			setupMock: func(m *order.MockRepository, id uuid.UUID) {
				m.EXPECT().GetOrder(gomock.Any(), id).
					Return(&order.Order{ID: id, Status: order.StatusPending}, nil)
				m.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						assert.Equal(t, "7.00", o.Price)
						return nil
					})
			},
		},
		{
			name:    "EmptyPrice",
			price:   "",
			wantErr: order.ErrInvalidPrice,
		},
		{
			name:    "JunkPrice",
			price:   "fifty",
			wantErr: order.ErrInvalidPrice,
		},
		{
			name:    "NegativePrice",
			price:   "-5",
			wantErr: order.ErrInvalidPrice,
		},
		{
			name:  "AlreadyCancelled",
			price: "50",
			setupMock: func(m *order.MockRepository, id uuid.UUID) {
				m.EXPECT().GetOrder(gomock.Any(), id).
					Return(&order.Order{ID: id, Status: order.StatusCancelled}, nil)
			},
			wantErr: order.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()

			repo := order.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, id)
			}

			svc := order.NewService(repo)
			got, err := svc.Complete(context.Background(), id, tt.price, tt.isPaid, "")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestService_Revert_KeepsPaymentFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := order.NewMockRepository(ctrl)
	repo.EXPECT().GetOrder(gomock.Any(), id).
		Return(&order.Order{ID: id, Status: order.StatusCompleted, Price: "50", IsPaid: false}, nil)
	repo.EXPECT().UpdateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *order.Order) error {
			assert.Equal(t, order.StatusPending, o.Status)
			assert.Equal(t, "50", o.Price)
			return nil
		})

	svc := order.NewService(repo)

	got, err := svc.Revert(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
}

func TestService_Cancel_OnlyFromPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := order.NewMockRepository(ctrl)
	repo.EXPECT().GetOrder(gomock.Any(), id).
		Return(&order.Order{ID: id, Status: order.StatusCompleted}, nil)

	svc := order.NewService(repo)

	_, err := svc.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestService_List_NewestFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	repo := order.NewMockRepository(ctrl)
	repo.EXPECT().ListOrders(gomock.Any()).Return([]*order.Order{
		{ID: uuid.New(), CreatedAt: t1},
		{ID: uuid.New(), CreatedAt: t1.Add(2 * time.Hour)},
		{ID: uuid.New(), CreatedAt: t1.Add(time.Hour)},
	}, nil)

	svc := order.NewService(repo)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
	assert.True(t, got[1].CreatedAt.After(got[2].CreatedAt))
}

func TestService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	repo.EXPECT().ListOrders(gomock.Any()).Return([]*order.Order{
		{ApartmentNumber: "A1", Status: order.StatusPending},
		{ApartmentNumber: "A1", Status: order.StatusPending},
		{ApartmentNumber: "B2", Status: order.StatusPending},
		{ApartmentNumber: "C3", Status: order.StatusCompleted},
		{ApartmentNumber: "C3", Status: order.StatusCancelled},
	}, nil)

	svc := order.NewService(repo)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalOrders)
	assert.Equal(t, 3, stats.PendingOrders)
	assert.Equal(t, 1, stats.CompletedOrders)
	assert.Equal(t, 2, stats.ApartmentsWithPending)
}

func TestService_RestoreBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t1 := time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)

	repo := order.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, o *order.Order) error {
			assert.Equal(t, order.StatusCompleted, o.Status)
			return nil
		})

	svc := order.NewService(repo)

	got, err := svc.RestoreBatch(context.Background(), []order.RestoreParams{
		{ApartmentNumber: "a4", OrderText: "market run", Price: "35", IsPaid: true, CreatedAt: t1},
		{ApartmentNumber: "B1", OrderText: "pharmacy", Price: "120.5", IsPaid: false, CreatedAt: t1},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A4", got[0].ApartmentNumber)
	assert.Equal(t, "B1", got[1].ApartmentNumber)
}
