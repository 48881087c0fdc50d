package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msohailkhan/dukaan/internal/importer"
	"github.com/msohailkhan/dukaan/internal/order"
)

type Handler struct {
	importSvc *importer.Service
	orderSvc  *order.Service
}

func NewHandler(importSvc *importer.Service, orderSvc *order.Service) *Handler {
	return &Handler{importSvc: importSvc, orderSvc: orderSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// importCSV loads a legacy export. Invoices already present are skipped so
// the same file can be re-run after a partial failure.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatPOS
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	drafts, err := h.importSvc.Parse(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var resp importResponse

	for _, draft := range drafts {
		o, err := h.orderSvc.Create(r.Context(), draft.Order)
		if err != nil {
			if errors.Is(err, order.ErrDuplicateInvoice) {
				resp.Skipped++
				continue
			}

			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		if draft.Paid > 0 && o.Outstanding > 0 {
			amount := min(draft.Paid, o.Outstanding)

			if _, err := h.orderSvc.AddPayment(r.Context(), o.ID, amount, order.MethodCash, "legacy import"); err != nil {
				slog.Error("failed to record imported payment",
					"invoice_id", o.InvoiceID, "error", err)
			}
		}

		resp.Imported++
	}

	writeJSON(w, http.StatusCreated, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
