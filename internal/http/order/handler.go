package order

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ozank/kapici/internal/apartment"
	"github.com/ozank/kapici/internal/auth"
	httpauth "github.com/ozank/kapici/internal/http/auth"
	"github.com/ozank/kapici/internal/order"
)

type Handler struct {
	svc    *order.Service
	aptSvc *apartment.Service
}

func NewHandler(svc *order.Service, aptSvc *apartment.Service) *Handler {
	return &Handler{svc: svc, aptSvc: aptSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	// Status transitions and deletes rewrite the debt book, so only staff
	// may run them.
	r.Group(func(r chi.Router) {
		r.Use(httpauth.RequireStaff)

		r.Patch("/{id}/complete", h.complete)
		r.Patch("/{id}/revert", h.revert)
		r.Patch("/{id}/cancel", h.cancel)
		r.Delete("/{id}", h.delete)
	})
}

type orderResponse struct {
	ID                uuid.UUID    `json:"id"`
	ApartmentNumber   string       `json:"apartment_number"`
	OrderText         string       `json:"order_text"`
	ContactInfo       string       `json:"contact_info,omitempty"`
	IsTrashCollection bool         `json:"is_trash_collection"`
	Type              order.Type   `json:"type"`
	TimeMessage       string       `json:"time_message,omitempty"`
	Status            order.Status `json:"status"`
	Price             string       `json:"price,omitempty"`
	IsPaid            bool         `json:"is_paid"`
	PaymentNote       string       `json:"payment_note,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func toResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:                o.ID,
		ApartmentNumber:   o.ApartmentNumber,
		OrderText:         o.OrderText,
		ContactInfo:       o.ContactInfo,
		IsTrashCollection: o.IsTrashCollection,
		Type:              o.Type,
		TimeMessage:       o.TimeMessage,
		Status:            o.Status,
		Price:             o.Price,
		IsPaid:            o.IsPaid,
		PaymentNote:       o.PaymentNote,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func toResponseList(orders []*order.Order) []orderResponse {
	responses := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, toResponse(o))
	}

	return responses
}

type createOrderRequest struct {
	ApartmentNumber   string `json:"apartment_number"`
	OrderText         string `json:"order_text"`
	ContactInfo       string `json:"contact_info"`
	IsTrashCollection bool   `json:"is_trash_collection"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims, ok := httpauth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	// Residents can only place orders for their own apartment.
	apt := req.ApartmentNumber
	if claims.Role == auth.RoleResident {
		apt = claims.Subject
	}

	o, err := h.svc.Create(r.Context(), order.CreateParams{
		ApartmentNumber:   apt,
		OrderText:         req.OrderText,
		ContactInfo:       req.ContactInfo,
		IsTrashCollection: req.IsTrashCollection,
	})
	if err != nil {
		if errors.Is(err, order.ErrMissingFields) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	// Remember the apartment and its contact info for the staff directory.
	if err := h.aptSvc.Record(r.Context(), o.ApartmentNumber, o.ContactInfo); err != nil {
		slog.Warn("failed to record apartment", "apartment", o.ApartmentNumber, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpauth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	var (
		orders []*order.Order
		err    error
	)

	if claims.Role == auth.RoleStaff {
		if apt := r.URL.Query().Get("apartment"); apt != "" {
			orders, err = h.svc.ListByApartment(r.Context(), apt)
		} else {
			orders, err = h.svc.List(r.Context())
		}
	} else {
		orders, err = h.svc.ListByApartment(r.Context(), claims.Subject)
	}

	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(orders)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	claims, _ := httpauth.ClaimsFromContext(r.Context())
	if claims == nil || (claims.Role == auth.RoleResident && claims.Subject != o.ApartmentNumber) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type completeOrderRequest struct {
	Price       string `json:"price"`
	IsPaid      bool   `json:"is_paid"`
	PaymentNote string `json:"payment_note"`
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req completeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.svc.Complete(r.Context(), id, req.Price, req.IsPaid, req.PaymentNote)
	if err != nil {
		if errors.Is(err, order.ErrInvalidPrice) {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return
		}

		writeOrderError(w, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) revert(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Revert)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Cancel)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id uuid.UUID) (*order.Order, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := fn(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(o)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeOrderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type statsResponse struct {
	TotalOrders           int `json:"total_orders"`
	PendingOrders         int `json:"pending_orders"`
	CompletedOrders       int `json:"completed_orders"`
	ApartmentsWithPending int `json:"apartments_with_pending"`
}

// Stats serves the dashboard counters. Mounted outside the /orders subtree.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := statsResponse{
		TotalOrders:           stats.TotalOrders,
		PendingOrders:         stats.PendingOrders,
		CompletedOrders:       stats.CompletedOrders,
		ApartmentsWithPending: stats.ApartmentsWithPending,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
