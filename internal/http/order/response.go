package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/msohailkhan/dukaan/internal/order"
)

type orderResponse struct {
	ID            uuid.UUID         `json:"id"`
	InvoiceID     string            `json:"invoice_id"`
	CustomerID    *uuid.UUID        `json:"customer_id,omitempty"`
	WalkIn        *walkInResponse   `json:"walk_in,omitempty"`
	Items         []itemResponse    `json:"items,omitempty"`
	Payments      []paymentResponse `json:"payments,omitempty"`
	Subtotal      int64             `json:"subtotal"`
	Discount      int64             `json:"discount"`
	OrderDiscount int64             `json:"order_discount"`
	TotalPrice    int64             `json:"total_price"`
	PaidAmount    int64             `json:"paid_amount"`
	Outstanding   int64             `json:"outstanding_amount"`
	Status        order.Status      `json:"status"`
	ArchivedAt    *time.Time        `json:"archived_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

type walkInResponse struct {
	Name  string `json:"name,omitempty"`
	CNIC  string `json:"cnic,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type itemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice int64           `json:"unit_price"`
	Discount  int64           `json:"discount"`
	LineTotal int64           `json:"line_total"`
	PriceType order.PriceType `json:"price_type"`
}

type paymentResponse struct {
	ID     uuid.UUID    `json:"id"`
	Amount int64        `json:"amount"`
	Method order.Method `json:"method"`
	Notes  string       `json:"notes,omitempty"`
	PaidAt time.Time    `json:"paid_at"`
}

func toResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		InvoiceID:     o.InvoiceID,
		CustomerID:    o.CustomerID,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		OrderDiscount: o.OrderAdjust,
		TotalPrice:    o.TotalPrice,
		PaidAmount:    o.PaidAmount,
		Outstanding:   o.Outstanding,
		Status:        o.Status,
		ArchivedAt:    o.ArchivedAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if o.WalkIn != nil {
		resp.WalkIn = &walkInResponse{
			Name:  o.WalkIn.Name,
			CNIC:  o.WalkIn.CNIC,
			Phone: o.WalkIn.Phone,
		}
	}

	for _, item := range o.Items {
		resp.Items = append(resp.Items, itemResponse{
			ID:        item.ID,
			ItemID:    item.ItemID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			LineTotal: item.LineTotal,
			PriceType: item.PriceType,
		})
	}

	for _, p := range o.Payments {
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			Method: p.Method,
			Notes:  p.Notes,
			PaidAt: p.PaidAt,
		})
	}

	return resp
}

func toResponseList(orders []*order.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toResponse(o)
	}

	return resp
}
