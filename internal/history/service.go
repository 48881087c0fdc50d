package history

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=history
type Repository interface {
	// IncrementDay atomically adds the deltas to the day's counters,
	// creating the row when it does not exist yet.
	IncrementDay(ctx context.Context, year, month, day int, profit, orders int64) error
	GetYear(ctx context.Context, year int) (*Year, error)
	ListYears(ctx context.Context) ([]int, error)
	DeleteYear(ctx context.Context, year int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordOrder folds one order into the business history under the UTC
// calendar day of the order's creation.
func (s *Service) RecordOrder(ctx context.Context, date time.Time, profit int64) error {
	d := date.UTC()

	if err := s.repo.IncrementDay(ctx, d.Year(), int(d.Month()), d.Day(), profit, 1); err != nil {
		return fmt.Errorf("incrementing history for %s: %w", d.Format("2006-01-02"), err)
	}

	return nil
}

func (s *Service) GetYear(ctx context.Context, year int) (*Year, error) {
	return s.repo.GetYear(ctx, year)
}

func (s *Service) ListYears(ctx context.Context) ([]int, error) {
	return s.repo.ListYears(ctx)
}

func (s *Service) DeleteYear(ctx context.Context, year int) error {
	return s.repo.DeleteYear(ctx, year)
}
