package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/msohailkhan/dukaan/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name           string
	RetailPrice    int64
	WholesalePrice int64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: item name is required", money.ErrInvalidInput)
	}

	if params.RetailPrice < 0 || params.WholesalePrice < 0 {
		return nil, fmt.Errorf("%w: item price must not be negative", money.ErrInvalidInput)
	}

	item := &Item{
		Name:           params.Name,
		RetailPrice:    params.RetailPrice,
		WholesalePrice: params.WholesalePrice,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx)
}

type UpdateParams struct {
	Name           *string
	RetailPrice    *int64
	WholesalePrice *int64
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if *params.Name == "" {
			return nil, fmt.Errorf("%w: item name must not be empty", money.ErrInvalidInput)
		}

		item.Name = *params.Name
	}

	if params.RetailPrice != nil {
		if *params.RetailPrice < 0 {
			return nil, fmt.Errorf("%w: item price must not be negative", money.ErrInvalidInput)
		}

		item.RetailPrice = *params.RetailPrice
	}

	if params.WholesalePrice != nil {
		if *params.WholesalePrice < 0 {
			return nil, fmt.Errorf("%w: item price must not be negative", money.ErrInvalidInput)
		}

		item.WholesalePrice = *params.WholesalePrice
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}
