package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/msohailkhan/dukaan/internal/customer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectCustomerColumns = `
	c.id, c.name, c.cnic, c.phone, c.address,
	c.paid_amount, c.outstanding_amount, c.created_at, c.updated_at
`

func scanCustomer(s scanner) (*customer.Customer, error) {
	var c customer.Customer

	if err := s.Scan(
		&c.ID, &c.Name, &c.CNIC, &c.Phone, &c.Address,
		&c.PaidAmount, &c.Outstanding, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, cnic, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.CNIC, c.Phone, c.Address).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrDuplicateIdentity
		}

		return fmt.Errorf("creating customer: %w", err)
	}

	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers c WHERE c.id = $1`

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return c, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers c ORDER BY c.name ASC`

	return s.queryCustomers(ctx, query)
}

func (s *Store) SearchCustomers(ctx context.Context, q string) ([]*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + `
		FROM customers c
		WHERE c.name ILIKE '%' || $1 || '%'
			OR c.cnic ILIKE '%' || $1 || '%'
			OR c.phone ILIKE '%' || $1 || '%'
		ORDER BY c.name ASC`

	return s.queryCustomers(ctx, query, q)
}

func (s *Store) ListOutstanding(ctx context.Context) ([]*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + `
		FROM customers c
		WHERE c.outstanding_amount > 0
		ORDER BY c.outstanding_amount DESC`

	return s.queryCustomers(ctx, query)
}

func (s *Store) queryCustomers(ctx context.Context, query string, args ...any) ([]*customer.Customer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []*customer.Customer

	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func (s *Store) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, cnic = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE id = $5
	`

	_, err := s.db.ExecContext(ctx, query, c.Name, c.CNIC, c.Phone, c.Address, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrDuplicateIdentity
		}

		return fmt.Errorf("updating customer: %w", err)
	}

	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	return nil
}

// RecalculateBalance replaces both balances with sums over the current
// non-archived linked orders.
func (s *Store) RecalculateBalance(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	query := `
		UPDATE customers c
		SET outstanding_amount = GREATEST(0, totals.outstanding),
			paid_amount = GREATEST(0, totals.paid),
			updated_at = NOW()
		FROM (
			SELECT COALESCE(SUM(outstanding_amount), 0) AS outstanding,
				COALESCE(SUM(paid_amount), 0) AS paid
			FROM orders
			WHERE customer_id = $1 AND archived_at IS NULL
		) totals
		WHERE c.id = $1
		RETURNING ` + selectCustomerColumns

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("recalculating customer balance: %w", err)
	}

	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
