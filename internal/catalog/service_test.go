package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/msohailkhan/dukaan/internal/catalog"
	"github.com/msohailkhan/dukaan/internal/money"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    catalog.CreateParams
		setupMock func(m *catalog.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: catalog.CreateParams{Name: "Cement bag 50kg", RetailPrice: 1250, WholesalePrice: 1100},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *catalog.Item) error {
						item.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "MissingName",
			params:  catalog.CreateParams{RetailPrice: 1250},
			wantErr: money.ErrInvalidInput,
		},
		{
			name:    "NegativePrice",
			params:  catalog.CreateParams{Name: "Cement bag 50kg", RetailPrice: -1},
			wantErr: money.ErrInvalidInput,
		},
		{
			name:   "DuplicateName",
			params: catalog.CreateParams{Name: "Cement bag 50kg", RetailPrice: 1250},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					Return(catalog.ErrDuplicateName)
			},
			wantErr: catalog.ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := catalog.NewService(repo)
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

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	existing := &catalog.Item{ID: id, Name: "Cement bag 50kg", RetailPrice: 1250, WholesalePrice: 1100}

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().GetItem(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil)

	svc := catalog.NewService(repo)

	newRetail := int64(1300)

	got, err := svc.Update(context.Background(), id, catalog.UpdateParams{RetailPrice: &newRetail})
	require.NoError(t, err)
	assert.Equal(t, int64(1300), got.RetailPrice)
	assert.Equal(t, int64(1100), got.WholesalePrice)
	assert.Equal(t, "Cement bag 50kg", got.Name)
}

func TestService_Update_NegativePrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().GetItem(gomock.Any(), id).Return(&catalog.Item{ID: id, Name: "Cement bag 50kg"}, nil)

	svc := catalog.NewService(repo)

	bad := int64(-5)

	_, err := svc.Update(context.Background(), id, catalog.UpdateParams{WholesalePrice: &bad})
	assert.ErrorIs(t, err, money.ErrInvalidInput)
}
