package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrDuplicateInvoice = errors.New("invoice id already exists")
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrOrderClosed      = errors.New("order is closed for payments")
	ErrConfirmRequired  = errors.New("bulk archive without a date range requires confirmation")
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusPartiallyPaid Status = "Partially Paid"
	StatusFullyPaid     Status = "Fully Paid"
	StatusCancelled     Status = "Cancelled"
)

// Method is the payment method used for a single payment.
type Method string

const (
	MethodCash   Method = "Cash"
	MethodCard   Method = "Card"
	MethodOnline Method = "Online Payment"
	MethodOther  Method = "Other"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodOnline, MethodOther:
		return true
	}

	return false
}

// PriceType records which catalog price was applied to a line.
type PriceType string

const (
	PriceRetail    PriceType = "retail"
	PriceWholesale PriceType = "wholesale"
)

// Item is one line of an order. Name and UnitPrice are snapshots taken at
// order time; later catalog changes never reprice existing orders.
type Item struct {
	ID        uuid.UUID
	ItemID    *uuid.UUID // catalog reference, nil for ad-hoc lines
	Name      string
	Quantity  int64
	UnitPrice int64
	Discount  int64 // per-unit fixed discount
	LineTotal int64
	PriceType PriceType
}

// Payment is a single received payment. Payments are append-only: past
// payments are never mutated or removed.
type Payment struct {
	ID     uuid.UUID
	Amount int64
	Method Method
	Notes  string
	PaidAt time.Time
}

// WalkIn carries the inline identity of a customer who is not registered.
type WalkIn struct {
	Name  string
	CNIC  string
	Phone string
}

// Order is an invoice with its line items and payment history.
//
// Invariants: TotalPrice = max(0, sum of line totals - OrderDiscount);
// PaidAmount = sum of payment amounts; OutstandingAmount =
// max(0, TotalPrice - PaidAmount); Status derives from those three except
// Cancelled, which is sticky.
type Order struct {
	ID          uuid.UUID
	InvoiceID   string
	CustomerID  *uuid.UUID
	WalkIn      *WalkIn
	Items       []Item
	Payments    []Payment
	Subtotal    int64
	Discount    int64 // sum of per-unit discounts
	OrderAdjust int64 // order-level discount
	TotalPrice  int64
	PaidAmount  int64
	Outstanding int64
	Status      Status
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// DeriveStatus computes the lifecycle status from the financial fields.
// Cancellation is terminal from any state. Zero-value orders are settled
// the moment they are created.
func DeriveStatus(paid, outstanding, total int64, cancelled bool) Status {
	switch {
	case cancelled:
		return StatusCancelled
	case total == 0:
		return StatusFullyPaid
	case outstanding <= 0:
		return StatusFullyPaid
	case paid > 0:
		return StatusPartiallyPaid
	default:
		return StatusPending
	}
}
