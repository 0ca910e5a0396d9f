package ledger

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Post("/{apartment}/payments", h.settle)
}

type summaryResponse struct {
	PerApartment map[string]string `json:"per_apartment"`
	TotalDebt    string            `json:"total_debt"`
	DebtorCount  int               `json:"debtor_count"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.DebtSummary(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		PerApartment: make(map[string]string, len(summary.PerApartment)),
		TotalDebt:    summary.TotalDebt.String(),
		DebtorCount:  summary.DebtorCount,
	}

	for apt, debt := range summary.PerApartment {
		resp.PerApartment[apt] = debt.String()
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type settleRequest struct {
	// Amount is optional: when omitted or empty the whole debt is settled.
	Amount string `json:"amount,omitempty"`
}

type settleResponse struct {
	Apartment      string `json:"apartment"`
	OrdersSettled  int    `json:"orders_settled"`
	OrdersAdjusted int    `json:"orders_adjusted"`
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	apt := chi.URLParam(r, "apartment")

	// A body-less POST settles the whole debt, so EOF is not an error.
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		updates []ledger.Update
		err     error
	)

	if req.Amount == "" {
		updates, err = h.svc.SettleFull(r.Context(), apt)
	} else {
		amount, parseErr := decimal.NewFromString(req.Amount)
		if parseErr != nil {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}

		updates, err = h.svc.SettlePartial(r.Context(), apt, amount)
	}

	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			http.Error(w, "amount must be positive", http.StatusBadRequest)
		case errors.Is(err, order.ErrNotFound):
			http.Error(w, "order disappeared during settlement", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	resp := settleResponse{Apartment: apt}

	for _, u := range updates {
		if u.IsPaid != nil {
			resp.OrdersSettled++
		}

		if u.Price != nil {
			resp.OrdersAdjusted++
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
