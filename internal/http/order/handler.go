package order

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/msohailkhan/dukaan/internal/http/auth"
	"github.com/msohailkhan/dukaan/internal/money"
	"github.com/msohailkhan/dukaan/internal/order"
)

type Handler struct {
	svc *order.Service
}

func NewHandler(svc *order.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.With(auth.RequireAdmin).Delete("/", h.archive)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/items", h.updateItems)
	r.Post("/{id}/cancel", h.cancel)
	r.Post("/{id}/payments", h.addPayment)
}

type itemRequest struct {
	ItemID    *uuid.UUID      `json:"item_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice *int64          `json:"unit_price,omitempty"`
	Discount  int64           `json:"discount,omitempty"`
	PriceType order.PriceType `json:"price_type,omitempty"`
}

type walkInRequest struct {
	Name  string `json:"name,omitempty"`
	CNIC  string `json:"cnic,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type createOrderRequest struct {
	InvoiceID     string         `json:"invoice_id"`
	CustomerID    *uuid.UUID     `json:"customer_id,omitempty"`
	WalkIn        *walkInRequest `json:"walk_in,omitempty"`
	Items         []itemRequest  `json:"items"`
	OrderDiscount int64          `json:"order_discount,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := order.CreateParams{
		InvoiceID:     req.InvoiceID,
		CustomerID:    req.CustomerID,
		Items:         toItemParams(req.Items),
		OrderDiscount: req.OrderDiscount,
	}

	if req.WalkIn != nil {
		params.WalkIn = &order.WalkIn{
			Name:  req.WalkIn.Name,
			CNIC:  req.WalkIn.CNIC,
			Phone: req.WalkIn.Phone,
		}
	}

	o, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(o))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := order.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(order.Status(s))
	}

	if s := r.URL.Query().Get("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid customer_id", http.StatusBadRequest)
			return
		}

		filter.CustomerID = &id
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	filter.IncludeArchived = r.URL.Query().Get("include_archived") == "true"

	orders, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(orders))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateItemsRequest struct {
	Items         []itemRequest `json:"items"`
	OrderDiscount int64         `json:"order_discount,omitempty"`
}

func (h *Handler) updateItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.svc.UpdateItems(r.Context(), id, toItemParams(req.Items), req.OrderDiscount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(o))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(o))
}

type paymentRequest struct {
	Amount int64        `json:"amount"`
	Method order.Method `json:"method"`
	Notes  string       `json:"notes,omitempty"`
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.svc.AddPayment(r.Context(), id, req.Amount, req.Method, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(o))
}

type archiveResponse struct {
	Archived int64 `json:"archived"`
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	params := order.ArchiveParams{
		ConfirmAll: r.URL.Query().Get("confirm_delete_all") == "true",
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}

		params.StartDate = &t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		params.EndDate = &t
	}

	count, err := h.svc.Archive(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, archiveResponse{Archived: count})
}

func toItemParams(items []itemRequest) []order.ItemParams {
	params := make([]order.ItemParams, len(items))
	for i, item := range items {
		params[i] = order.ItemParams{
			ItemID:    item.ItemID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			PriceType: item.PriceType,
		}
	}

	return params
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrDuplicateInvoice),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidAmount),
		errors.Is(err, order.ErrOrderClosed),
		errors.Is(err, order.ErrConfirmRequired),
		errors.Is(err, money.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
