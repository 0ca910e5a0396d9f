package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ozank/kapici/internal/importer"
	"github.com/ozank/kapici/internal/order"
)

type Handler struct {
	importSvc *importer.Service
	orderSvc  *order.Service
}

func NewHandler(importSvc *importer.Service, orderSvc *order.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		orderSvc:  orderSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/legacy", h.importLegacy)
}

type importSuccessResponse struct {
	Imported   int `json:"imported"`
	Apartments int `json:"apartments"`
}

func (h *Handler) importLegacy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := importer.Source(r.FormValue("source"))
	if source == "" {
		source = importer.SourceLedger
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orders, err := h.orderSvc.RestoreBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	apartments := make(map[string]struct{})
	for _, o := range orders {
		apartments[o.ApartmentNumber] = struct{}{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := importSuccessResponse{Imported: len(orders), Apartments: len(apartments)}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
