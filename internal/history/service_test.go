package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/msohailkhan/dukaan/internal/history"
)

func TestService_RecordOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// 23:30 on Jan 1 in UTC+5 is still Jan 1 in local time but the rollup
	// buckets by UTC, so this lands on Jan 1 18:30 UTC.
	loc := time.FixedZone("PKT", 5*60*60)
	date := time.Date(2024, time.January, 1, 23, 30, 0, 0, loc)

	repo := history.NewMockRepository(ctrl)
	repo.EXPECT().
		IncrementDay(gomock.Any(), 2024, 1, 1, int64(3800), int64(1)).
		Return(nil)

	svc := history.NewService(repo)

	err := svc.RecordOrder(context.Background(), date, 3800)
	require.NoError(t, err)
}

func TestService_RecordOrder_DateRollsToPreviousUTCDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loc := time.FixedZone("PKT", 5*60*60)
	date := time.Date(2024, time.March, 1, 2, 0, 0, 0, loc)

	repo := history.NewMockRepository(ctrl)
	repo.EXPECT().
		IncrementDay(gomock.Any(), 2024, 2, 29, int64(500), int64(1)).
		Return(nil)

	svc := history.NewService(repo)

	err := svc.RecordOrder(context.Background(), date, 500)
	require.NoError(t, err)
}

func TestService_GetYear_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := history.NewMockRepository(ctrl)
	repo.EXPECT().GetYear(gomock.Any(), 1999).Return(nil, history.ErrNotFound)

	svc := history.NewService(repo)

	_, err := svc.GetYear(context.Background(), 1999)
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestService_GetYear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	want := &history.Year{
		Year:        2024,
		TotalProfit: 4300,
		TotalOrders: 2,
		Months: []history.Month{
			{
				Month:       1,
				TotalProfit: 3800,
				TotalOrders: 1,
				Days:        []history.Day{{Day: 1, TotalProfit: 3800, TotalOrders: 1}},
			},
			{
				Month:       2,
				TotalProfit: 500,
				TotalOrders: 1,
				Days:        []history.Day{{Day: 29, TotalProfit: 500, TotalOrders: 1}},
			},
		},
	}

	repo := history.NewMockRepository(ctrl)
	repo.EXPECT().GetYear(gomock.Any(), 2024).Return(want, nil)

	svc := history.NewService(repo)

	got, err := svc.GetYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
