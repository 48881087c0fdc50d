package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/msohailkhan/dukaan/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectItemColumns = `
	i.id, i.name, i.retail_price, i.wholesale_price, i.created_at, i.updated_at
`

func scanItem(s scanner) (*catalog.Item, error) {
	var item catalog.Item

	if err := s.Scan(
		&item.ID, &item.Name, &item.RetailPrice, &item.WholesalePrice,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *catalog.Item) error {
	query := `
		INSERT INTO items (name, retail_price, wholesale_price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, item.Name, item.RetailPrice, item.WholesalePrice).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", catalog.ErrDuplicateName, item.Name)
		}

		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM items i WHERE i.id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM items i ORDER BY i.name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*catalog.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *Store) UpdateItem(ctx context.Context, item *catalog.Item) error {
	query := `
		UPDATE items
		SET name = $1, retail_price = $2, wholesale_price = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query, item.Name, item.RetailPrice, item.WholesalePrice, item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", catalog.ErrDuplicateName, item.Name)
		}

		return fmt.Errorf("updating item: %w", err)
	}

	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
