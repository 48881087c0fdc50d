package customer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/msohailkhan/dukaan/internal/customer"
	"github.com/msohailkhan/dukaan/internal/money"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    customer.CreateParams
		setupMock func(m *customer.MockRepository)
		wantErr   error
	}

	cnic := "35201-1234567-1"

	tests := []testCase{
		{
			name:   "Success",
			params: customer.CreateParams{Name: "Akram Traders", CNIC: &cnic, Phone: "0300-1234567"},
			setupMock: func(m *customer.MockRepository) {
				m.EXPECT().
					CreateCustomer(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *customer.Customer) error {
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "NoCNICIsAllowed",
			params: customer.CreateParams{Name: "Walk-in regular", Phone: "0301-7654321"},
			setupMock: func(m *customer.MockRepository) {
				m.EXPECT().
					CreateCustomer(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *customer.Customer) error {
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "MissingName",
			params:  customer.CreateParams{Phone: "0300-1234567"},
			wantErr: money.ErrInvalidInput,
		},
		{
			name:    "MissingPhone",
			params:  customer.CreateParams{Name: "Akram Traders"},
			wantErr: money.ErrInvalidInput,
		},
		{
			name:   "DuplicatePhone",
			params: customer.CreateParams{Name: "Akram Traders", Phone: "0300-1234567"},
			setupMock: func(m *customer.MockRepository) {
				m.EXPECT().
					CreateCustomer(gomock.Any(), gomock.Any()).
					Return(customer.ErrDuplicateIdentity)
			},
			wantErr: customer.ErrDuplicateIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := customer.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := customer.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Recalculate_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	want := &customer.Customer{ID: id, Name: "Akram Traders", Outstanding: 15000, PaidAmount: 5000}

	repo := customer.NewMockRepository(ctrl)
	repo.EXPECT().RecalculateBalance(gomock.Any(), id).Return(want, nil).Times(2)

	svc := customer.NewService(repo)

	first, err := svc.Recalculate(context.Background(), id)
	require.NoError(t, err)

	second, err := svc.Recalculate(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.Outstanding, second.Outstanding)
	assert.Equal(t, first.PaidAmount, second.PaidAmount)
}

func TestService_Search(t *testing.T) {
	t.Run("EmptyQueryRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := customer.NewService(customer.NewMockRepository(ctrl))

		_, err := svc.Search(context.Background(), "")
		assert.ErrorIs(t, err, money.ErrInvalidInput)
	})

	t.Run("DelegatesToRepo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := customer.NewMockRepository(ctrl)
		repo.EXPECT().
			SearchCustomers(gomock.Any(), "akram").
			Return([]*customer.Customer{{ID: uuid.New()}}, nil)

		svc := customer.NewService(repo)

		got, err := svc.Search(context.Background(), "akram")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	existing := &customer.Customer{ID: id, Name: "Akram Traders", Phone: "0300-1234567"}

	repo := customer.NewMockRepository(ctrl)
	repo.EXPECT().GetCustomer(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateCustomer(gomock.Any(), gomock.Any()).Return(nil)

	svc := customer.NewService(repo)

	newName := "Akram & Sons"

	got, err := svc.Update(context.Background(), id, customer.UpdateParams{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Akram & Sons", got.Name)
	assert.Equal(t, "0300-1234567", got.Phone)
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := customer.NewMockRepository(ctrl)
	repo.EXPECT().GetCustomer(gomock.Any(), id).Return(nil, customer.ErrNotFound)

	svc := customer.NewService(repo)

	_, err := svc.Update(context.Background(), id, customer.UpdateParams{})
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestService_List_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := customer.NewMockRepository(ctrl)
	repo.EXPECT().ListCustomers(gomock.Any()).Return(nil, errors.New("db error"))

	svc := customer.NewService(repo)

	_, err := svc.List(context.Background())
	assert.Error(t, err)
}
