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

	"github.com/msohailkhan/dukaan/internal/money"
	"github.com/msohailkhan/dukaan/internal/order"
)

func TestDeriveStatus(t *testing.T) {
	type args struct {
		paid        int64
		outstanding int64
		total       int64
		cancelled   bool
	}

	type testCase struct {
		name string
		args args
		want order.Status
	}

	tests := []testCase{
		{
			name: "NewUnpaidOrder",
			args: args{paid: 0, outstanding: 3800, total: 3800},
			want: order.StatusPending,
		},
		{
			name: "PartialPayment",
			args: args{paid: 1000, outstanding: 2800, total: 3800},
			want: order.StatusPartiallyPaid,
		},
		{
			name: "SettledInFull",
			args: args{paid: 3800, outstanding: 0, total: 3800},
			want: order.StatusFullyPaid,
		},
		{
			name: "ZeroValueOrderSettlesImmediately",
			args: args{paid: 0, outstanding: 0, total: 0},
			want: order.StatusFullyPaid,
		},
		{
			name: "CancelledIsSticky",
			args: args{paid: 1000, outstanding: 2800, total: 3800, cancelled: true},
			want: order.StatusCancelled,
		},
		{
			name: "CancelledEvenWhenFullyPaid",
			args: args{paid: 3800, outstanding: 0, total: 3800, cancelled: true},
			want: order.StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := order.DeriveStatus(tt.args.paid, tt.args.outstanding, tt.args.total, tt.args.cancelled)
			assert.Equal(t, tt.want, got)
		})
	}
}

func price(v int64) *int64 { return &v }

func TestService_Create(t *testing.T) {
	customerID := uuid.New()

	type testCase struct {
		name       string
		params     order.CreateParams
		setupMocks func(repo *order.MockRepository, tx *order.MockTx, cat *order.MockCatalog, hist *order.MockHistoryRecorder)
		check      func(t *testing.T, o *order.Order)
		wantErr    error
	}

	tests := []testCase{
		{
			name: "WalkInOrderDerivesTotals",
			params: order.CreateParams{
				InvoiceID: "INV-1",
				WalkIn:    &order.WalkIn{Name: "Walk In"},
				Items: []order.ItemParams{
					{Name: "Paint bucket", Quantity: 2, UnitPrice: price(1000), Discount: 100},
					{Name: "Brush", Quantity: 1, UnitPrice: price(2000)},
				},
			},
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx, _ *order.MockCatalog, hist *order.MockHistoryRecorder) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						o.ID = uuid.New()
						o.CreatedAt = time.Now().UTC()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
				hist.EXPECT().Record(gomock.Any(), int64(3800))
			},
			check: func(t *testing.T, o *order.Order) {
				assert.Equal(t, int64(4000), o.Subtotal)
				assert.Equal(t, int64(200), o.Discount)
				assert.Equal(t, int64(3800), o.TotalPrice)
				assert.Equal(t, int64(0), o.PaidAmount)
				assert.Equal(t, int64(3800), o.Outstanding)
				assert.Equal(t, order.StatusPending, o.Status)
			},
		},
		{
			name: "CustomerOrderRecalculatesBalance",
			params: order.CreateParams{
				InvoiceID:  "INV-2",
				CustomerID: &customerID,
				Items: []order.ItemParams{
					{Name: "Cement bag", Quantity: 1, UnitPrice: price(5000)},
				},
			},
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx, _ *order.MockCatalog, hist *order.MockHistoryRecorder) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						o.ID = uuid.New()
						o.CreatedAt = time.Now().UTC()
						return nil
					})
				tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
				hist.EXPECT().Record(gomock.Any(), int64(5000))
			},
		},
		{
			name: "CatalogPriceSnapshot",
			params: func() order.CreateParams {
				itemID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
				return order.CreateParams{
					InvoiceID: "INV-3",
					Items: []order.ItemParams{
						{ItemID: &itemID, Quantity: 3, PriceType: order.PriceWholesale},
					},
				}
			}(),
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx, cat *order.MockCatalog, hist *order.MockHistoryRecorder) {
				cat.EXPECT().
					Lookup(gomock.Any(), uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")).
					Return(order.CatalogItem{Name: "Pipe", RetailPrice: 1200, WholesalePrice: 900}, true, nil)
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						o.ID = uuid.New()
						o.CreatedAt = time.Now().UTC()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
				hist.EXPECT().Record(gomock.Any(), int64(2700))
			},
			check: func(t *testing.T, o *order.Order) {
				require.Len(t, o.Items, 1)
				assert.Equal(t, "Pipe", o.Items[0].Name)
				assert.Equal(t, int64(900), o.Items[0].UnitPrice)
				assert.Equal(t, int64(2700), o.TotalPrice)
			},
		},
		{
			name: "ZeroTotalOrderIsFullyPaid",
			params: order.CreateParams{
				InvoiceID: "INV-4",
				Items: []order.ItemParams{
					{Name: "Free sample", Quantity: 1, UnitPrice: price(0)},
				},
			},
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx, _ *order.MockCatalog, hist *order.MockHistoryRecorder) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *order.Order) error {
						o.ID = uuid.New()
						o.CreatedAt = time.Now().UTC()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
				hist.EXPECT().Record(gomock.Any(), int64(0))
			},
			check: func(t *testing.T, o *order.Order) {
				assert.Equal(t, order.StatusFullyPaid, o.Status)
			},
		},
		{
			name:    "EmptyOrderRejected",
			params:  order.CreateParams{InvoiceID: "INV-5"},
			wantErr: order.ErrEmptyOrder,
		},
		{
			name: "MissingInvoiceRejected",
			params: order.CreateParams{
				Items: []order.ItemParams{{Name: "x", Quantity: 1, UnitPrice: price(100)}},
			},
			wantErr: money.ErrInvalidInput,
		},
		{
			name: "NegativeQuantityRejected",
			params: order.CreateParams{
				InvoiceID: "INV-6",
				Items:     []order.ItemParams{{Name: "x", Quantity: -1, UnitPrice: price(100)}},
			},
			wantErr: money.ErrInvalidInput,
		},
		{
			name: "DuplicateInvoiceSurfaces",
			params: order.CreateParams{
				InvoiceID: "INV-1",
				Items:     []order.ItemParams{{Name: "x", Quantity: 1, UnitPrice: price(100)}},
			},
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx, _ *order.MockCatalog, _ *order.MockHistoryRecorder) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(order.ErrDuplicateInvoice)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: order.ErrDuplicateInvoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := order.NewMockRepository(ctrl)
			tx := order.NewMockTx(ctrl)
			cat := order.NewMockCatalog(ctrl)
			hist := order.NewMockHistoryRecorder(ctrl)

			if tt.setupMocks != nil {
				tt.setupMocks(repo, tx, cat, hist)
			}

			svc := order.NewService(repo, cat, hist)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_AddPayment(t *testing.T) {
	orderID := uuid.New()
	customerID := uuid.New()

	baseOrder := func() *order.Order {
		return &order.Order{
			ID:          orderID,
			InvoiceID:   "INV-1",
			CustomerID:  &customerID,
			TotalPrice:  3800,
			PaidAmount:  0,
			Outstanding: 3800,
			Status:      order.StatusPending,
		}
	}

	type testCase struct {
		name       string
		amount     int64
		method     order.Method
		setupMocks func(repo *order.MockRepository, tx *order.MockTx)
		check      func(t *testing.T, o *order.Order)
		wantErr    error
	}

	tests := []testCase{
		{
			name:   "FullPaymentSettlesOrder",
			amount: 3800,
			method: order.MethodCash,
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(baseOrder(), nil)
				tx.EXPECT().
					AddPayment(gomock.Any(), orderID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, p *order.Payment) error {
						p.ID = uuid.New()
						return nil
					})
				tx.EXPECT().UpdateFinancials(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, o *order.Order) {
				assert.Equal(t, int64(3800), o.PaidAmount)
				assert.Equal(t, int64(0), o.Outstanding)
				assert.Equal(t, order.StatusFullyPaid, o.Status)
			},
		},
		{
			name:   "PartialPayment",
			amount: 1000,
			method: order.MethodCard,
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(baseOrder(), nil)
				tx.EXPECT().AddPayment(gomock.Any(), orderID, gomock.Any()).Return(nil)
				tx.EXPECT().UpdateFinancials(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, o *order.Order) {
				assert.Equal(t, int64(1000), o.PaidAmount)
				assert.Equal(t, int64(2800), o.Outstanding)
				assert.Equal(t, order.StatusPartiallyPaid, o.Status)
			},
		},
		{
			name:   "OverpaymentClampsOutstanding",
			amount: 5000,
			method: order.MethodCash,
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(baseOrder(), nil)
				tx.EXPECT().AddPayment(gomock.Any(), orderID, gomock.Any()).Return(nil)
				tx.EXPECT().UpdateFinancials(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, o *order.Order) {
				assert.Equal(t, int64(5000), o.PaidAmount)
				assert.Equal(t, int64(0), o.Outstanding)
				assert.Equal(t, order.StatusFullyPaid, o.Status)
			},
		},
		{
			name:   "FullyPaidOrderRejectsPayment",
			amount: 100,
			method: order.MethodCash,
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx) {
				o := baseOrder()
				o.PaidAmount = 3800
				o.Outstanding = 0
				o.Status = order.StatusFullyPaid

				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(o, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: order.ErrOrderClosed,
		},
		{
			name:   "CancelledOrderRejectsPayment",
			amount: 100,
			method: order.MethodCash,
			setupMocks: func(repo *order.MockRepository, tx *order.MockTx) {
				o := baseOrder()
				o.Status = order.StatusCancelled

				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(o, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: order.ErrOrderClosed,
		},
		{
			name:    "ZeroAmountRejected",
			amount:  0,
			method:  order.MethodCash,
			wantErr: order.ErrInvalidAmount,
		},
		{
			name:    "NegativeAmountRejected",
			amount:  -500,
			method:  order.MethodCash,
			wantErr: order.ErrInvalidAmount,
		},
		{
			name:    "UnknownMethodRejected",
			amount:  100,
			method:  order.Method("Barter"),
			wantErr: money.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := order.NewMockRepository(ctrl)
			tx := order.NewMockTx(ctrl)

			if tt.setupMocks != nil {
				tt.setupMocks(repo, tx)
			}

			svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))
			got, err := svc.AddPayment(context.Background(), orderID, tt.amount, tt.method, "")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_AddPayment_PaidEqualsPaymentSum(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()

	o := &order.Order{
		ID:          orderID,
		TotalPrice:  3800,
		PaidAmount:  1500,
		Outstanding: 2300,
		Status:      order.StatusPartiallyPaid,
		Payments: []order.Payment{
			{Amount: 1000, Method: order.MethodCash},
			{Amount: 500, Method: order.MethodCard},
		},
	}

	repo := order.NewMockRepository(ctrl)
	tx := order.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(o, nil)
	tx.EXPECT().AddPayment(gomock.Any(), orderID, gomock.Any()).Return(nil)
	tx.EXPECT().UpdateFinancials(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

	got, err := svc.AddPayment(context.Background(), orderID, 300, order.MethodOnline, "third instalment")
	require.NoError(t, err)

	var sum int64
	for _, p := range got.Payments {
		sum += p.Amount
	}

	assert.Equal(t, sum, got.PaidAmount)
	assert.Equal(t, int64(1800), got.PaidAmount)
	assert.Equal(t, int64(2000), got.Outstanding)
}

func TestService_UpdateItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	customerID := uuid.New()

	existing := &order.Order{
		ID:          orderID,
		CustomerID:  &customerID,
		TotalPrice:  3800,
		PaidAmount:  1000,
		Outstanding: 2800,
		Status:      order.StatusPartiallyPaid,
		Payments:    []order.Payment{{Amount: 1000, Method: order.MethodCash}},
	}

	repo := order.NewMockRepository(ctrl)
	tx := order.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(existing, nil)
	tx.EXPECT().ReplaceItems(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

	got, err := svc.UpdateItems(context.Background(), orderID, []order.ItemParams{
		{Name: "Cheaper item", Quantity: 1, UnitPrice: price(1500)},
	}, 0)
	require.NoError(t, err)

	// Paid amount is untouched by item edits; outstanding re-derives from the
	// new total against it.
	assert.Equal(t, int64(1500), got.TotalPrice)
	assert.Equal(t, int64(1000), got.PaidAmount)
	assert.Equal(t, int64(500), got.Outstanding)
	assert.Equal(t, order.StatusPartiallyPaid, got.Status)
}

func TestService_Cancel(t *testing.T) {
	t.Run("CancelsPendingOrder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		orderID := uuid.New()
		o := &order.Order{ID: orderID, Status: order.StatusPending, TotalPrice: 100, Outstanding: 100}

		repo := order.NewMockRepository(ctrl)
		tx := order.NewMockTx(ctrl)

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(o, nil)
		tx.EXPECT().SetStatus(gomock.Any(), orderID, order.StatusCancelled).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

		got, err := svc.Cancel(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, got.Status)
	})

	t.Run("AlreadyCancelledIsNoop", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		orderID := uuid.New()
		o := &order.Order{ID: orderID, Status: order.StatusCancelled}

		repo := order.NewMockRepository(ctrl)
		tx := order.NewMockTx(ctrl)

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(o, nil)
		tx.EXPECT().Rollback().Return(nil)

		svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

		got, err := svc.Cancel(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, got.Status)
	})
}

func TestService_Archive(t *testing.T) {
	t.Run("UnboundedWithoutConfirmationRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := order.NewService(order.NewMockRepository(ctrl), order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

		_, err := svc.Archive(context.Background(), order.ArchiveParams{})
		assert.ErrorIs(t, err, order.ErrConfirmRequired)
	})

	t.Run("RecalculatesAffectedCustomers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c1 := uuid.New()
		c2 := uuid.New()

		repo := order.NewMockRepository(ctrl)
		tx := order.NewMockTx(ctrl)

		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().ArchiveOrders(gomock.Any(), gomock.Any()).Return(int64(5), []uuid.UUID{c1, c2}, nil)
		tx.EXPECT().RecalculateCustomer(gomock.Any(), c1).Return(nil)
		tx.EXPECT().RecalculateCustomer(gomock.Any(), c2).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

		count, err := svc.Archive(context.Background(), order.ArchiveParams{ConfirmAll: true})
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})
}

func TestService_PayCustomer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	customerID := uuid.New()

	older := &order.Order{
		ID:          uuid.New(),
		CustomerID:  &customerID,
		TotalPrice:  10000,
		Outstanding: 10000,
		Status:      order.StatusPending,
	}
	newer := &order.Order{
		ID:          uuid.New(),
		CustomerID:  &customerID,
		TotalPrice:  5000,
		Outstanding: 5000,
		Status:      order.StatusPending,
	}

	repo := order.NewMockRepository(ctrl)
	tx := order.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().ListOutstandingForUpdate(gomock.Any(), customerID).Return([]*order.Order{older, newer}, nil)
	tx.EXPECT().AddPayment(gomock.Any(), older.ID, gomock.Any()).Return(nil)
	tx.EXPECT().UpdateFinancials(gomock.Any(), older).Return(nil)
	tx.EXPECT().AddPayment(gomock.Any(), newer.ID, gomock.Any()).Return(nil)
	tx.EXPECT().UpdateFinancials(gomock.Any(), newer).Return(nil)
	tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

	// 12,000 settles the older order and leaves 2,000 on the newer one.
	allocated, err := svc.PayCustomer(context.Background(), customerID, 12000, order.MethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), allocated)

	assert.Equal(t, order.StatusFullyPaid, older.Status)
	assert.Equal(t, int64(0), older.Outstanding)
	assert.Equal(t, order.StatusPartiallyPaid, newer.Status)
	assert.Equal(t, int64(3000), newer.Outstanding)
	assert.Equal(t, int64(2000), newer.PaidAmount)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderID := uuid.New()
	customerID := uuid.New()
	o := &order.Order{ID: orderID, CustomerID: &customerID}

	repo := order.NewMockRepository(ctrl)
	tx := order.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().GetOrderForUpdate(gomock.Any(), orderID).Return(o, nil)
	tx.EXPECT().DeleteOrder(gomock.Any(), orderID).Return(nil)
	tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := order.NewService(repo, order.NewMockCatalog(ctrl), order.NewMockHistoryRecorder(ctrl))

	require.NoError(t, svc.Delete(context.Background(), orderID))
}

func TestService_Create_RollsBackOnRecalcFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	customerID := uuid.New()

	repo := order.NewMockRepository(ctrl)
	tx := order.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().RecalculateCustomer(gomock.Any(), customerID).Return(errors.New("deadlock detected"))
	tx.EXPECT().Rollback().Return(nil)

	hist := order.NewMockHistoryRecorder(ctrl)
	svc := order.NewService(repo, order.NewMockCatalog(ctrl), hist)

	_, err := svc.Create(context.Background(), order.CreateParams{
		InvoiceID:  "INV-9",
		CustomerID: &customerID,
		Items:      []order.ItemParams{{Name: "x", Quantity: 1, UnitPrice: price(100)}},
	})
	require.Error(t, err)
}
