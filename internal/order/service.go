package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msohailkhan/dukaan/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is a unit of work spanning order mutations and the linked customer's
// balance recomputation. Everything inside commits or rolls back together.
type Tx interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	AddPayment(ctx context.Context, orderID uuid.UUID, p *Payment) error
	UpdateFinancials(ctx context.Context, o *Order) error
	ReplaceItems(ctx context.Context, o *Order) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ArchiveOrders(ctx context.Context, params ArchiveParams) (int64, []uuid.UUID, error)
	ListOutstandingForUpdate(ctx context.Context, customerID uuid.UUID) ([]*Order, error)
	RecalculateCustomer(ctx context.Context, customerID uuid.UUID) error
	Commit() error
	Rollback() error
}

// CatalogItem is the snapshot the catalog collaborator returns for a lookup.
type CatalogItem struct {
	Name           string
	RetailPrice    int64
	WholesalePrice int64
}

// Catalog supplies item name/price lookups at order-creation time.
type Catalog interface {
	Lookup(ctx context.Context, id uuid.UUID) (CatalogItem, bool, error)
}

// HistoryRecorder receives the creation event of a committed order. Record
// must not block and must never fail the caller.
type HistoryRecorder interface {
	Record(date time.Time, profit int64)
}

type Service struct {
	repo    Repository
	catalog Catalog
	history HistoryRecorder
}

func NewService(repo Repository, catalog Catalog, history HistoryRecorder) *Service {
	return &Service{repo: repo, catalog: catalog, history: history}
}

type ItemParams struct {
	ItemID    *uuid.UUID
	Name      string // required for ad-hoc lines without a catalog reference
	Quantity  int64
	UnitPrice *int64 // nil means take the catalog price for PriceType
	Discount  int64
	PriceType PriceType
}

type CreateParams struct {
	InvoiceID     string
	CustomerID    *uuid.UUID
	WalkIn        *WalkIn
	Items         []ItemParams
	OrderDiscount int64

	// CreatedAt backdates the order, used by the legacy import. Nil means now.
	CreatedAt *time.Time
}

type ListFilter struct {
	Status          *Status
	CustomerID      *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeArchived bool
}

type ArchiveParams struct {
	StartDate  *time.Time
	EndDate    *time.Time
	ConfirmAll bool
}

// Create validates and persists a new order. The order insert and the linked
// customer's balance recomputation share one transaction; the business-history
// increment is scheduled after commit and is never awaited.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	if params.InvoiceID == "" {
		return nil, fmt.Errorf("%w: invoice id is required", money.ErrInvalidInput)
	}

	if len(params.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items, err := s.buildItems(ctx, params.Items)
	if err != nil {
		return nil, err
	}

	totals, err := orderTotals(items, params.OrderDiscount)
	if err != nil {
		return nil, err
	}

	o := &Order{
		InvoiceID:   params.InvoiceID,
		CustomerID:  params.CustomerID,
		WalkIn:      params.WalkIn,
		Items:       items,
		Subtotal:    totals.Subtotal,
		Discount:    totals.DiscountTotal,
		OrderAdjust: params.OrderDiscount,
		TotalPrice:  totals.TotalPrice,
		PaidAmount:  0,
		Outstanding: totals.TotalPrice,
		Status:      DeriveStatus(0, totals.TotalPrice, totals.TotalPrice, false),
	}

	if params.CreatedAt != nil {
		o.CreatedAt = params.CreatedAt.UTC()
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback()

	if err := tx.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	if o.CustomerID != nil {
		if err := tx.RecalculateCustomer(ctx, *o.CustomerID); err != nil {
			return nil, fmt.Errorf("recalculate customer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create order: %w", err)
	}

	s.history.Record(o.CreatedAt, o.TotalPrice)

	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.ListOrders(ctx, filter)
}

// AddPayment appends a payment to the order and re-derives its financial
// state. The order row is locked for the duration, so concurrent payments on
// the same order serialize instead of losing updates.
func (s *Service) AddPayment(ctx context.Context, id uuid.UUID, amount int64, method Method, notes string) (*Order, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", money.ErrInvalidInput, method)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add payment: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.GetOrderForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status == StatusFullyPaid || o.Status == StatusCancelled {
		return nil, ErrOrderClosed
	}

	p := &Payment{
		Amount: amount,
		Method: method,
		Notes:  notes,
		PaidAt: time.Now().UTC(),
	}

	if err := tx.AddPayment(ctx, o.ID, p); err != nil {
		return nil, fmt.Errorf("add payment: %w", err)
	}

	o.Payments = append(o.Payments, *p)
	applyPayments(o)

	if err := tx.UpdateFinancials(ctx, o); err != nil {
		return nil, fmt.Errorf("update financials: %w", err)
	}

	if o.CustomerID != nil {
		if err := tx.RecalculateCustomer(ctx, *o.CustomerID); err != nil {
			return nil, fmt.Errorf("recalculate customer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add payment: %w", err)
	}

	return o, nil
}

// UpdateItems replaces the order's line items and order-level discount,
// recomputing totals against the unchanged paid amount. Business history is
// not adjusted retroactively.
func (s *Service) UpdateItems(ctx context.Context, id uuid.UUID, itemParams []ItemParams, orderDiscount int64) (*Order, error) {
	if len(itemParams) == 0 {
		return nil, ErrEmptyOrder
	}

	items, err := s.buildItems(ctx, itemParams)
	if err != nil {
		return nil, err
	}

	totals, err := orderTotals(items, orderDiscount)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update items: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.GetOrderForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Items = items
	o.Subtotal = totals.Subtotal
	o.Discount = totals.DiscountTotal
	o.OrderAdjust = orderDiscount
	o.TotalPrice = totals.TotalPrice
	applyPayments(o)

	if err := tx.ReplaceItems(ctx, o); err != nil {
		return nil, fmt.Errorf("replace items: %w", err)
	}

	if o.CustomerID != nil {
		if err := tx.RecalculateCustomer(ctx, *o.CustomerID); err != nil {
			return nil, fmt.Errorf("recalculate customer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update items: %w", err)
	}

	return o, nil
}

// Cancel marks the order Cancelled. The transition is terminal and leaves
// recorded payments untouched.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cancel: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.GetOrderForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status == StatusCancelled {
		// Already terminal; nothing to write.
		return o, nil
	}

	if err := tx.SetStatus(ctx, o.ID, StatusCancelled); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	o.Status = StatusCancelled

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}

	return o, nil
}

// Delete hard-deletes a single order and recomputes the linked customer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.GetOrderForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if err := tx.DeleteOrder(ctx, o.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if o.CustomerID != nil {
		if err := tx.RecalculateCustomer(ctx, *o.CustomerID); err != nil {
			return fmt.Errorf("recalculate customer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	return nil
}

// Archive soft-deletes every non-archived order in the given date range and
// recomputes each affected customer. An unbounded archive must be confirmed
// explicitly.
func (s *Service) Archive(ctx context.Context, params ArchiveParams) (int64, error) {
	if params.StartDate == nil && params.EndDate == nil && !params.ConfirmAll {
		return 0, ErrConfirmRequired
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin archive: %w", err)
	}
	defer tx.Rollback()

	count, customers, err := tx.ArchiveOrders(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("archive orders: %w", err)
	}

	for _, cid := range customers {
		if err := tx.RecalculateCustomer(ctx, cid); err != nil {
			return 0, fmt.Errorf("recalculate customer %s: %w", cid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit archive: %w", err)
	}

	return count, nil
}

// PayCustomer records a customer-level payment by allocating it across the
// customer's outstanding orders, oldest first, then recomputing the balance.
// Returns the amount actually allocated.
func (s *Service) PayCustomer(ctx context.Context, customerID uuid.UUID, amount int64, method Method, notes string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	if !method.Valid() {
		return 0, fmt.Errorf("%w: unknown payment method %q", money.ErrInvalidInput, method)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin customer payment: %w", err)
	}
	defer tx.Rollback()

	orders, err := tx.ListOutstandingForUpdate(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("list outstanding orders: %w", err)
	}

	remaining := amount

	var allocated int64

	for _, o := range orders {
		if remaining <= 0 {
			break
		}

		pay := min(remaining, o.Outstanding)

		p := &Payment{
			Amount: pay,
			Method: method,
			Notes:  notes,
			PaidAt: time.Now().UTC(),
		}

		if err := tx.AddPayment(ctx, o.ID, p); err != nil {
			return 0, fmt.Errorf("add payment to order %s: %w", o.ID, err)
		}

		o.Payments = append(o.Payments, *p)
		applyPayments(o)

		if err := tx.UpdateFinancials(ctx, o); err != nil {
			return 0, fmt.Errorf("update financials for order %s: %w", o.ID, err)
		}

		remaining -= pay
		allocated += pay
	}

	if err := tx.RecalculateCustomer(ctx, customerID); err != nil {
		return 0, fmt.Errorf("recalculate customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit customer payment: %w", err)
	}

	return allocated, nil
}

// buildItems resolves catalog snapshots and computes line totals.
func (s *Service) buildItems(ctx context.Context, params []ItemParams) ([]Item, error) {
	items := make([]Item, 0, len(params))

	for i, p := range params {
		priceType := p.PriceType
		if priceType == "" {
			priceType = PriceRetail
		}

		item := Item{
			ItemID:    p.ItemID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Discount:  p.Discount,
			PriceType: priceType,
		}

		switch {
		case p.UnitPrice != nil:
			item.UnitPrice = *p.UnitPrice

			if p.ItemID != nil && item.Name == "" {
				if err := s.fillFromCatalog(ctx, &item, false); err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
			}
		case p.ItemID != nil:
			if err := s.fillFromCatalog(ctx, &item, true); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("%w: item %d needs a catalog reference or an explicit price", money.ErrInvalidInput, i)
		}

		if item.Name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", money.ErrInvalidInput, i)
		}

		line, err := money.Line(item.UnitPrice, item.Discount, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		item.LineTotal = line
		items = append(items, item)
	}

	return items, nil
}

func (s *Service) fillFromCatalog(ctx context.Context, item *Item, applyPrice bool) error {
	ci, found, err := s.catalog.Lookup(ctx, *item.ItemID)
	if err != nil {
		return fmt.Errorf("catalog lookup: %w", err)
	}

	if !found {
		return fmt.Errorf("%w: unknown catalog item %s", money.ErrInvalidInput, *item.ItemID)
	}

	if item.Name == "" {
		item.Name = ci.Name
	}

	if applyPrice {
		if item.PriceType == PriceWholesale {
			item.UnitPrice = ci.WholesalePrice
		} else {
			item.UnitPrice = ci.RetailPrice
		}
	}

	return nil
}

func orderTotals(items []Item, orderDiscount int64) (money.Totals, error) {
	lines := make([]money.LineItem, len(items))
	for i, item := range items {
		lines[i] = money.LineItem{
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Quantity:  item.Quantity,
		}
	}

	return money.OrderTotals(lines, orderDiscount)
}

// applyPayments re-derives paid, outstanding and status from the payment
// history. It never touches the totals; payment-only updates must not
// recompute them.
func applyPayments(o *Order) {
	var paid int64
	for _, p := range o.Payments {
		paid += p.Amount
	}

	o.PaidAmount = paid

	o.Outstanding = o.TotalPrice - paid
	if o.Outstanding < 0 {
		o.Outstanding = 0
	}

	o.Status = DeriveStatus(o.PaidAmount, o.Outstanding, o.TotalPrice, o.Status == StatusCancelled)
}
