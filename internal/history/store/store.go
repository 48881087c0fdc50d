package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msohailkhan/dukaan/internal/history"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) IncrementDay(ctx context.Context, year, month, day int, profit, orders int64) error {
	query := `
		INSERT INTO business_days (year, month, day, total_profit, total_orders)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, month, day)
		DO UPDATE SET
			total_profit = business_days.total_profit + EXCLUDED.total_profit,
			total_orders = business_days.total_orders + EXCLUDED.total_orders
	`

	_, err := s.db.ExecContext(ctx, query, year, month, day, profit, orders)
	if err != nil {
		return fmt.Errorf("incrementing business day: %w", err)
	}

	return nil
}

// GetYear assembles the flat day rows into the nested year shape. Months and
// days come back sorted ascending; month and year totals are sums over their
// days.
func (s *Store) GetYear(ctx context.Context, year int) (*history.Year, error) {
	query := `
		SELECT month, day, total_profit, total_orders
		FROM business_days
		WHERE year = $1
		ORDER BY month ASC, day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("getting business year: %w", err)
	}
	defer rows.Close()

	y := &history.Year{Year: year}

	for rows.Next() {
		var (
			month int
			d     history.Day
		)

		if err := rows.Scan(&month, &d.Day, &d.TotalProfit, &d.TotalOrders); err != nil {
			return nil, fmt.Errorf("scanning business day: %w", err)
		}

		if len(y.Months) == 0 || y.Months[len(y.Months)-1].Month != month {
			y.Months = append(y.Months, history.Month{Month: month})
		}

		m := &y.Months[len(y.Months)-1]
		m.Days = append(m.Days, d)
		m.TotalProfit += d.TotalProfit
		m.TotalOrders += d.TotalOrders
		y.TotalProfit += d.TotalProfit
		y.TotalOrders += d.TotalOrders
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(y.Months) == 0 {
		return nil, history.ErrNotFound
	}

	return y, nil
}

func (s *Store) ListYears(ctx context.Context) ([]int, error) {
	query := `SELECT DISTINCT year FROM business_days ORDER BY year DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing business years: %w", err)
	}
	defer rows.Close()

	var years []int

	for rows.Next() {
		var y int

		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scanning business year: %w", err)
		}

		years = append(years, y)
	}

	return years, rows.Err()
}

func (s *Store) DeleteYear(ctx context.Context, year int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM business_days WHERE year = $1", year)
	if err != nil {
		return fmt.Errorf("deleting business year: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return history.ErrNotFound
	}

	return nil
}
