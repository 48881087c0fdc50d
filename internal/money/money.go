// Package money holds the pure order arithmetic. All amounts are cents.
package money

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid input")

// LineItem is the input for a single order line.
type LineItem struct {
	UnitPrice int64 // price per unit, captured at order time
	Discount  int64 // fixed discount per unit
	Quantity  int64
}

// Totals is the derived financial summary of an order's line items.
type Totals struct {
	Subtotal      int64 // sum of unit_price * quantity
	DiscountTotal int64 // sum of discount * quantity
	TotalPrice    int64 // max(0, sum of line totals - order discount)
}

// Line computes a single line total: max(0, (unitPrice - discount) * quantity).
func Line(unitPrice, discount, quantity int64) (int64, error) {
	if err := validateLine(unitPrice, discount, quantity); err != nil {
		return 0, err
	}

	total := (unitPrice - discount) * quantity
	if total < 0 {
		total = 0
	}

	return total, nil
}

// OrderTotals derives the order-level totals from its lines and the
// order-level discount. Inputs are validated before anything is computed.
func OrderTotals(items []LineItem, orderDiscount int64) (Totals, error) {
	if orderDiscount < 0 {
		return Totals{}, fmt.Errorf("%w: order discount must not be negative", ErrInvalidInput)
	}

	for i, item := range items {
		if err := validateLine(item.UnitPrice, item.Discount, item.Quantity); err != nil {
			return Totals{}, fmt.Errorf("item %d: %w", i, err)
		}
	}

	var t Totals

	var lineSum int64

	for _, item := range items {
		t.Subtotal += item.UnitPrice * item.Quantity
		t.DiscountTotal += item.Discount * item.Quantity

		line := (item.UnitPrice - item.Discount) * item.Quantity
		if line < 0 {
			line = 0
		}

		lineSum += line
	}

	t.TotalPrice = lineSum - orderDiscount
	if t.TotalPrice < 0 {
		t.TotalPrice = 0
	}

	return t, nil
}

func validateLine(unitPrice, discount, quantity int64) error {
	switch {
	case quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	case unitPrice < 0:
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	case discount < 0:
		return fmt.Errorf("%w: discount must not be negative", ErrInvalidInput)
	}

	return nil
}
