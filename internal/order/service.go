package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)
	ListApartmentOrders(ctx context.Context, apartmentNumber string) ([]*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ApartmentNumber   string
	OrderText         string
	ContactInfo       string
	IsTrashCollection bool
	Type              Type
	TimeMessage       string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	apt := strings.ToUpper(strings.TrimSpace(params.ApartmentNumber))
	text := strings.TrimSpace(params.OrderText)

	if apt == "" || text == "" {
		return nil, ErrMissingFields
	}

	now := time.Now()

	orderType := params.Type
	if orderType == "" {
		orderType = typeForHour(now.Hour())
	}

	o := &Order{
		ID:                uuid.New(),
		ApartmentNumber:   apt,
		OrderText:         text,
		ContactInfo:       strings.TrimSpace(params.ContactInfo),
		IsTrashCollection: params.IsTrashCollection,
		Type:              orderType,
		TimeMessage:       params.TimeMessage,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	return o, nil
}

// typeForHour buckets an order into the concierge's three daily runs.
func typeForHour(hour int) Type {
	switch {
	case hour < 11:
		return TypeMorning
	case hour < 15:
		return TypeLunch
	default:
		return TypeEvening
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]*Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	sortNewestFirst(orders)

	return orders, nil
}

// ListByApartment returns one apartment's orders, newest first.
func (s *Service) ListByApartment(ctx context.Context, apartmentNumber string) ([]*Order, error) {
	orders, err := s.repo.ListApartmentOrders(ctx, strings.ToUpper(strings.TrimSpace(apartmentNumber)))
	if err != nil {
		return nil, err
	}

	sortNewestFirst(orders)

	return orders, nil
}

func sortNewestFirst(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// Complete marks a pending order done, recording the charged price and
// whether it was paid on the spot. An unpaid completion becomes apartment
// debt.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, price string, isPaid bool, note string) (*Order, error) {
	trimmed := strings.TrimSpace(price)

	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return nil, ErrInvalidPrice
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status != StatusPending {
		return nil, fmt.Errorf("completing %s order: %w", o.Status, ErrInvalidTransition)
	}

	o.Status = StatusCompleted
	// The cell keeps the price as typed: rendering through decimal would
	// turn "12.50" into "12.5".
	o.Price = trimmed
	o.IsPaid = isPaid
	o.PaymentNote = note
	o.UpdatedAt = time.Now()

	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	return o, nil
}

// Revert puts a completed order back into the pending queue. Price and
// IsPaid are left as they are; the order stops counting as debt because it
// is no longer completed.
func (s *Service) Revert(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.transition(ctx, id, StatusCompleted, StatusPending)
}

// Cancel is terminal: a cancelled order cannot be reopened.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.transition(ctx, id, StatusPending, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, from, to Status) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status != from {
		return nil, fmt.Errorf("%s -> %s: %w", o.Status, to, ErrInvalidTransition)
	}

	o.Status = to
	o.UpdatedAt = time.Now()

	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	return o, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOrder(ctx, id)
}

type Stats struct {
	TotalOrders           int
	PendingOrders         int
	CompletedOrders       int
	ApartmentsWithPending int
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return Stats{}, err
	}

	pendingApts := make(map[string]struct{})

	stats := Stats{TotalOrders: len(orders)}

	for _, o := range orders {
		switch o.Status {
		case StatusPending:
			stats.PendingOrders++
			pendingApts[o.ApartmentNumber] = struct{}{}
		case StatusCompleted:
			stats.CompletedOrders++
		}
	}

	stats.ApartmentsWithPending = len(pendingApts)

	return stats, nil
}

// RestoreParams describes a historical order imported from the legacy paper
// ledger. Restored orders are created already completed.
type RestoreParams struct {
	ApartmentNumber string
	OrderText       string
	Price           string
	IsPaid          bool
	CreatedAt       time.Time
}

func (s *Service) RestoreBatch(ctx context.Context, params []RestoreParams) ([]*Order, error) {
	if len(params) == 0 {
		return nil, nil
	}

	orders := make([]*Order, 0, len(params))

	for _, p := range params {
		o := &Order{
			ID:              uuid.New(),
			ApartmentNumber: strings.ToUpper(strings.TrimSpace(p.ApartmentNumber)),
			OrderText:       strings.TrimSpace(p.OrderText),
			Status:          StatusCompleted,
			Price:           p.Price,
			IsPaid:          p.IsPaid,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.CreatedAt,
		}

		if err := s.repo.CreateOrder(ctx, o); err != nil {
			return orders, fmt.Errorf("restoring order for %s: %w", o.ApartmentNumber, err)
		}

		orders = append(orders, o)
	}

	return orders, nil
}
