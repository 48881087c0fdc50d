package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/msohailkhan/dukaan/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]*Customer, error)
	ListOutstanding(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	// RecalculateBalance re-derives both balances from the customer's
	// non-archived orders and returns the updated customer.
	RecalculateBalance(ctx context.Context, id uuid.UUID) (*Customer, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name    string
	CNIC    *string
	Phone   string
	Address string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", money.ErrInvalidInput)
	}

	if params.Phone == "" {
		return nil, fmt.Errorf("%w: customer phone is required", money.ErrInvalidInput)
	}

	c := &Customer{
		Name:    params.Name,
		CNIC:    params.CNIC,
		Phone:   params.Phone,
		Address: params.Address,
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) Search(ctx context.Context, query string) ([]*Customer, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", money.ErrInvalidInput)
	}

	return s.repo.SearchCustomers(ctx, query)
}

// Outstanding lists customers that still owe money, largest balance first.
func (s *Service) Outstanding(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListOutstanding(ctx)
}

type UpdateParams struct {
	Name    *string
	CNIC    *string
	Phone   *string
	Address *string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if *params.Name == "" {
			return nil, fmt.Errorf("%w: customer name must not be empty", money.ErrInvalidInput)
		}

		c.Name = *params.Name
	}

	if params.CNIC != nil {
		c.CNIC = params.CNIC
	}

	if params.Phone != nil {
		if *params.Phone == "" {
			return nil, fmt.Errorf("%w: customer phone must not be empty", money.ErrInvalidInput)
		}

		c.Phone = *params.Phone
	}

	if params.Address != nil {
		c.Address = *params.Address
	}

	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCustomer(ctx, id)
}

// Recalculate re-derives the customer's paid and outstanding amounts from the
// linked orders. It is idempotent: without intervening order changes a second
// call produces the same balances.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.RecalculateBalance(ctx, id)
}
