package apartment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ozank/kapici/internal/apartment"
)

type Handler struct {
	svc *apartment.Service
}

func NewHandler(svc *apartment.Service) *Handler {
	return &Handler{svc: svc}
}

type unitResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Units serves the building catalog used by the order form dropdown.
func (h *Handler) Units(w http.ResponseWriter, r *http.Request) {
	units := h.svc.Units()

	responses := make([]unitResponse, 0, len(units))
	for _, u := range units {
		responses = append(responses, unitResponse{Value: u.Value, Label: u.Label})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(responses); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type apartmentResponse struct {
	Number      string `json:"number"`
	ContactInfo string `json:"contact_info,omitempty"`
}

// List serves the apartments that have placed orders, with their last known
// contact info.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	apts, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	responses := make([]apartmentResponse, 0, len(apts))
	for _, a := range apts {
		responses = append(responses, apartmentResponse{Number: a.Number, ContactInfo: a.ContactInfo})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(responses); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
