package history

import "errors"

var ErrNotFound = errors.New("no history recorded for year")

// Day is a single day's profit rollup. TotalProfit can go negative when
// cancellations outweigh the day's sales.
type Day struct {
	Day         int
	TotalProfit int64
	TotalOrders int64
}

type Month struct {
	Month       int
	TotalProfit int64
	TotalOrders int64
	Days        []Day
}

type Year struct {
	Year        int
	TotalProfit int64
	TotalOrders int64
	Months      []Month
}
