package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/msohailkhan/dukaan/internal/order"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOrderColumns = `
	o.id, o.invoice_id, o.customer_id, o.walkin_name, o.walkin_cnic, o.walkin_phone,
	o.subtotal, o.discount_total, o.order_discount, o.total_price,
	o.paid_amount, o.outstanding_amount, o.status, o.archived_at, o.created_at, o.updated_at
`

// scanOrder reads an order row in selectOrderColumns order.
func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order

	var statusStr string

	var walkinName, walkinCNIC, walkinPhone sql.NullString

	if err := s.Scan(
		&o.ID, &o.InvoiceID, &o.CustomerID, &walkinName, &walkinCNIC, &walkinPhone,
		&o.Subtotal, &o.Discount, &o.OrderAdjust, &o.TotalPrice,
		&o.PaidAmount, &o.Outstanding, &statusStr, &o.ArchivedAt, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.Status = order.Status(statusStr)

	if walkinName.Valid || walkinCNIC.Valid || walkinPhone.Valid {
		o.WalkIn = &order.WalkIn{
			Name:  walkinName.String,
			CNIC:  walkinCNIC.String,
			Phone: walkinPhone.String,
		}
	}

	return &o, nil
}

func getOrder(ctx context.Context, q querier, id uuid.UUID, lock bool) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders o WHERE o.id = $1`
	if lock {
		query += " FOR UPDATE"
	}

	o, err := scanOrder(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	if err := loadItems(ctx, q, o); err != nil {
		return nil, err
	}

	if err := loadPayments(ctx, q, o); err != nil {
		return nil, err
	}

	return o, nil
}

func loadItems(ctx context.Context, q querier, o *order.Order) error {
	query := `
		SELECT id, item_id, name, quantity, unit_price, discount_amount, line_total, price_type
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`

	rows, err := q.QueryContext(ctx, query, o.ID)
	if err != nil {
		return fmt.Errorf("loading order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item order.Item

		var priceType string

		if err := rows.Scan(
			&item.ID, &item.ItemID, &item.Name, &item.Quantity,
			&item.UnitPrice, &item.Discount, &item.LineTotal, &priceType,
		); err != nil {
			return fmt.Errorf("scanning order item: %w", err)
		}

		item.PriceType = order.PriceType(priceType)
		o.Items = append(o.Items, item)
	}

	return rows.Err()
}

func loadPayments(ctx context.Context, q querier, o *order.Order) error {
	query := `
		SELECT id, amount, method, notes, paid_at
		FROM order_payments
		WHERE order_id = $1
		ORDER BY paid_at ASC, id ASC
	`

	rows, err := q.QueryContext(ctx, query, o.ID)
	if err != nil {
		return fmt.Errorf("loading order payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p order.Payment

		var method string

		if err := rows.Scan(&p.ID, &p.Amount, &method, &p.Notes, &p.PaidAt); err != nil {
			return fmt.Errorf("scanning payment: %w", err)
		}

		p.Method = order.Method(method)
		o.Payments = append(o.Payments, p)
	}

	return rows.Err()
}

func insertItems(ctx context.Context, q querier, o *order.Order) error {
	query := `
		INSERT INTO order_items (order_id, item_id, name, quantity, unit_price, discount_amount, line_total, price_type, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	for i := range o.Items {
		item := &o.Items[i]

		err := q.QueryRowContext(ctx, query,
			o.ID, item.ItemID, item.Name, item.Quantity,
			item.UnitPrice, item.Discount, item.LineTotal, item.PriceType, i,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return getOrder(ctx, s.db, id, false)
}

// ListOrders returns order summaries without their items and payments.
func (s *Store) ListOrders(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders o WHERE 1=1`

	var args []any

	argIdx := 1

	if !filter.IncludeArchived {
		query += " AND o.archived_at IS NULL"
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND o.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND o.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND o.created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND o.created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY o.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (s *Store) Begin(ctx context.Context) (order.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning order tx: %w", err)
	}

	return &orderTx{tx: dbTx}, nil
}

type orderTx struct {
	tx *sql.Tx
}

func (t *orderTx) Commit() error   { return t.tx.Commit() }
func (t *orderTx) Rollback() error { return t.tx.Rollback() }

func (t *orderTx) CreateOrder(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (
			invoice_id, customer_id, walkin_name, walkin_cnic, walkin_phone,
			subtotal, discount_total, order_discount, total_price,
			paid_amount, outstanding_amount, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, NOW()))
		RETURNING id, created_at
	`

	var walkinName, walkinCNIC, walkinPhone *string
	if o.WalkIn != nil {
		walkinName = &o.WalkIn.Name
		walkinCNIC = nullable(o.WalkIn.CNIC)
		walkinPhone = nullable(o.WalkIn.Phone)
	}

	err := t.tx.QueryRowContext(ctx, query,
		o.InvoiceID, o.CustomerID, walkinName, walkinCNIC, walkinPhone,
		o.Subtotal, o.Discount, o.OrderAdjust, o.TotalPrice,
		o.PaidAmount, o.Outstanding, o.Status, nullTime(o.CreatedAt),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", order.ErrDuplicateInvoice, o.InvoiceID)
		}

		return fmt.Errorf("creating order: %w", err)
	}

	return insertItems(ctx, t.tx, o)
}

func (t *orderTx) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return getOrder(ctx, t.tx, id, true)
}

func (t *orderTx) AddPayment(ctx context.Context, orderID uuid.UUID, p *order.Payment) error {
	query := `
		INSERT INTO order_payments (order_id, amount, method, notes, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := t.tx.QueryRowContext(ctx, query, orderID, p.Amount, p.Method, p.Notes, p.PaidAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

func (t *orderTx) UpdateFinancials(ctx context.Context, o *order.Order) error {
	query := `
		UPDATE orders
		SET paid_amount = $1, outstanding_amount = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := t.tx.ExecContext(ctx, query, o.PaidAmount, o.Outstanding, o.Status, o.ID)
	if err != nil {
		return fmt.Errorf("updating order financials: %w", err)
	}

	return nil
}

func (t *orderTx) ReplaceItems(ctx context.Context, o *order.Order) error {
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", o.ID); err != nil {
		return fmt.Errorf("clearing order items: %w", err)
	}

	if err := insertItems(ctx, t.tx, o); err != nil {
		return err
	}

	query := `
		UPDATE orders
		SET subtotal = $1, discount_total = $2, order_discount = $3, total_price = $4,
			paid_amount = $5, outstanding_amount = $6, status = $7, updated_at = NOW()
		WHERE id = $8
	`

	_, err := t.tx.ExecContext(ctx, query,
		o.Subtotal, o.Discount, o.OrderAdjust, o.TotalPrice,
		o.PaidAmount, o.Outstanding, o.Status, o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order totals: %w", err)
	}

	return nil
}

func (t *orderTx) SetStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := t.tx.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	return nil
}

func (t *orderTx) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	_, err := t.tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	return nil
}

// ArchiveOrders soft-deletes matching orders and reports the distinct
// customers whose balances now need recomputation.
func (t *orderTx) ArchiveOrders(ctx context.Context, params order.ArchiveParams) (int64, []uuid.UUID, error) {
	query := `
		UPDATE orders
		SET archived_at = NOW(), updated_at = NOW()
		WHERE archived_at IS NULL
	`

	var args []any

	argIdx := 1

	if params.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *params.StartDate)
		argIdx++
	}

	if params.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)

		args = append(args, *params.EndDate)
		argIdx++
	}

	query += " RETURNING customer_id"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, nil, fmt.Errorf("archiving orders: %w", err)
	}
	defer rows.Close()

	var count int64

	seen := make(map[uuid.UUID]struct{})

	var customers []uuid.UUID

	for rows.Next() {
		var customerID *uuid.UUID
		if err := rows.Scan(&customerID); err != nil {
			return 0, nil, fmt.Errorf("scanning archived order: %w", err)
		}

		count++

		if customerID == nil {
			continue
		}

		if _, ok := seen[*customerID]; ok {
			continue
		}

		seen[*customerID] = struct{}{}
		customers = append(customers, *customerID)
	}

	return count, customers, rows.Err()
}

func (t *orderTx) ListOutstandingForUpdate(ctx context.Context, customerID uuid.UUID) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + `
		FROM orders o
		WHERE o.customer_id = $1
			AND o.archived_at IS NULL
			AND o.status IN ($2, $3)
			AND o.outstanding_amount > 0
		ORDER BY o.created_at ASC
		FOR UPDATE`

	rows, err := t.tx.QueryContext(ctx, query, customerID, order.StatusPending, order.StatusPartiallyPaid)
	if err != nil {
		return nil, fmt.Errorf("listing outstanding orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outstanding orders: %w", err)
	}

	// Payment re-derivation needs the full payment history of each order.
	for _, o := range orders {
		if err := loadPayments(ctx, t.tx, o); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// RecalculateCustomer re-derives the customer's balances from the current set
// of non-archived linked orders, replacing whatever was there before.
func (t *orderTx) RecalculateCustomer(ctx context.Context, customerID uuid.UUID) error {
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
	`

	_, err := t.tx.ExecContext(ctx, query, customerID)
	if err != nil {
		return fmt.Errorf("recalculating customer balance: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
