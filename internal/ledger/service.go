package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ozank/kapici/internal/order"
)

// ErrInvalidAmount is returned for a partial payment of zero or less. The
// check happens before any store interaction.
var ErrInvalidAmount = errors.New("payment amount must be greater than zero")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	ListOrders(ctx context.Context) ([]*order.Order, error)

	// ApplyUpdates applies settlement updates. Implementations stop at the
	// first failing update and do not roll back earlier ones; the postgres
	// store additionally wraps the batch in a transaction.
	ApplyUpdates(ctx context.Context, updates []Update) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// DebtSummary recomputes the per-apartment debt state from the current
// order list.
func (s *Service) DebtSummary(ctx context.Context) (Summary, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing orders: %w", err)
	}

	return ComputeDebtSummary(orders), nil
}

// SettleFull marks every outstanding order of the apartment paid. It returns
// the updates it attempted; on error the caller must re-read debt state
// rather than assume which updates landed.
func (s *Service) SettleFull(ctx context.Context, apartmentNumber string) ([]Update, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	updates := FullPayment(apartmentNumber, orders)
	if len(updates) == 0 {
		return nil, nil
	}

	if err := s.repo.ApplyUpdates(ctx, updates); err != nil {
		return updates, fmt.Errorf("applying settlement: %w", err)
	}

	return updates, nil
}

// SettlePartial allocates amount across the apartment's outstanding orders
// oldest-first. Overpayment settles everything and discards the excess.
func (s *Service) SettlePartial(ctx context.Context, apartmentNumber string, amount decimal.Decimal) ([]Update, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	updates, err := PartialPayment(apartmentNumber, amount, orders)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return nil, nil
	}

	if err := s.repo.ApplyUpdates(ctx, updates); err != nil {
		return updates, fmt.Errorf("applying settlement: %w", err)
	}

	return updates, nil
}
