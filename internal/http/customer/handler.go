package customer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/msohailkhan/dukaan/internal/customer"
	"github.com/msohailkhan/dukaan/internal/money"
	"github.com/msohailkhan/dukaan/internal/order"
)

type Handler struct {
	svc      *customer.Service
	orderSvc *order.Service
}

func NewHandler(svc *customer.Service, orderSvc *order.Service) *Handler {
	return &Handler{svc: svc, orderSvc: orderSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/search", h.search)
	r.Get("/outstanding", h.outstanding)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/orders", h.orders)
	r.Post("/{id}/payments", h.addPayment)
}

type customerResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	CNIC        *string    `json:"cnic,omitempty"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address,omitempty"`
	PaidAmount  int64      `json:"paid_amount"`
	Outstanding int64      `json:"outstanding_amount"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *customer.Customer) customerResponse {
	return customerResponse{
		ID:          c.ID,
		Name:        c.Name,
		CNIC:        c.CNIC,
		Phone:       c.Phone,
		Address:     c.Address,
		PaidAmount:  c.PaidAmount,
		Outstanding: c.Outstanding,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toResponseList(customers []*customer.Customer) []customerResponse {
	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toResponse(c)
	}

	return resp
}

type createCustomerRequest struct {
	Name    string  `json:"name"`
	CNIC    *string `json:"cnic,omitempty"`
	Phone   string  `json:"phone"`
	Address string  `json:"address,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), customer.CreateParams{
		Name:    req.Name,
		CNIC:    req.CNIC,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(customers))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(customers))
}

func (h *Handler) outstanding(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Outstanding(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(customers))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(c))
}

type updateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	CNIC    *string `json:"cnic,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Update(r.Context(), id, customer.UpdateParams{
		Name:    req.Name,
		CNIC:    req.CNIC,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(c))
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

type orderSummaryResponse struct {
	ID          uuid.UUID    `json:"id"`
	InvoiceID   string       `json:"invoice_id"`
	TotalPrice  int64        `json:"total_price"`
	PaidAmount  int64        `json:"paid_amount"`
	Outstanding int64        `json:"outstanding_amount"`
	Status      order.Status `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (h *Handler) orders(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	orders, err := h.orderSvc.List(r.Context(), order.ListFilter{CustomerID: &id})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]orderSummaryResponse, len(orders))
	for i, o := range orders {
		resp[i] = orderSummaryResponse{
			ID:          o.ID,
			InvoiceID:   o.InvoiceID,
			TotalPrice:  o.TotalPrice,
			PaidAmount:  o.PaidAmount,
			Outstanding: o.Outstanding,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type customerPaymentRequest struct {
	Amount int64        `json:"amount"`
	Method order.Method `json:"method"`
	Notes  string       `json:"notes,omitempty"`
}

type customerPaymentResponse struct {
	Allocated int64            `json:"allocated"`
	Customer  customerResponse `json:"customer"`
}

// addPayment pays down the customer's outstanding orders oldest-first, then
// returns the recalculated balances.
func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req customerPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	allocated, err := h.orderSvc.PayCustomer(r.Context(), id, req.Amount, req.Method, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customerPaymentResponse{Allocated: allocated, Customer: toResponse(c)})
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
	case errors.Is(err, customer.ErrNotFound), errors.Is(err, order.ErrNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	case errors.Is(err, customer.ErrDuplicateIdentity),
		errors.Is(err, order.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
