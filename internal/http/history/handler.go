package history

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/msohailkhan/dukaan/internal/history"
	"github.com/msohailkhan/dukaan/internal/http/auth"
)

type Handler struct {
	svc *history.Service
}

func NewHandler(svc *history.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.listYears)
	r.Get("/{year}", h.getYear)
	r.With(auth.RequireAdmin).Delete("/{year}", h.deleteYear)
}

type dayResponse struct {
	Day         int   `json:"day"`
	TotalProfit int64 `json:"total_profit"`
	TotalOrders int64 `json:"total_orders"`
}

type monthResponse struct {
	Month       int           `json:"month"`
	TotalProfit int64         `json:"total_profit"`
	TotalOrders int64         `json:"total_orders"`
	Days        []dayResponse `json:"days"`
}

type yearResponse struct {
	Year        int             `json:"year"`
	TotalProfit int64           `json:"total_profit"`
	TotalOrders int64           `json:"total_orders"`
	Months      []monthResponse `json:"months"`
}

func toResponse(y *history.Year) yearResponse {
	resp := yearResponse{
		Year:        y.Year,
		TotalProfit: y.TotalProfit,
		TotalOrders: y.TotalOrders,
		Months:      make([]monthResponse, len(y.Months)),
	}

	for i, m := range y.Months {
		month := monthResponse{
			Month:       m.Month,
			TotalProfit: m.TotalProfit,
			TotalOrders: m.TotalOrders,
			Days:        make([]dayResponse, len(m.Days)),
		}

		for j, d := range m.Days {
			month.Days[j] = dayResponse{
				Day:         d.Day,
				TotalProfit: d.TotalProfit,
				TotalOrders: d.TotalOrders,
			}
		}

		resp.Months[i] = month
	}

	return resp
}

type yearsResponse struct {
	Years []int `json:"years"`
}

func (h *Handler) listYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.svc.ListYears(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, yearsResponse{Years: years})
}

func (h *Handler) getYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	y, err := h.svc.GetYear(r.Context(), year)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			http.Error(w, "no history for year", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(y))
}

func (h *Handler) deleteYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteYear(r.Context(), year); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			http.Error(w, "no history for year", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
