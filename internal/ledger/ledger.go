// Package ledger computes apartment debt from the order history and
// allocates payments across unpaid orders.
//
// Debt is never stored: it is always recomputed from the order list, so the
// price and isPaid fields on orders are the only settlement state there is.
package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ozank/kapici/internal/order"
)

// Update is a single store mutation produced by a settlement. Exactly one of
// IsPaid or Price is set: a fully covered order flips IsPaid, a partially
// covered one keeps IsPaid false and has its price reduced to the residual.
type Update struct {
	OrderID uuid.UUID
	IsPaid  *bool
	Price   *string
}

// Summary is the derived per-apartment debt state.
type Summary struct {
	PerApartment map[string]decimal.Decimal
	TotalDebt    decimal.Decimal
	DebtorCount  int
}

// qualifies reports whether an order carries debt: completed, priced, unpaid.
// Pending and cancelled orders never carry debt regardless of their price
// fields (a reverted completion keeps its price but stops qualifying).
func qualifies(o *order.Order) bool {
	return o.Status == order.StatusCompleted && o.Price != "" && !o.IsPaid
}

// parsePrice reads a stored price cell. Rows written by hand in the sheet
// occasionally hold junk; those count as zero rather than failing the whole
// summary.
func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// ComputeDebtSummary derives each apartment's outstanding balance from the
// full order list. Pure function: no store access, no mutation of orders.
func ComputeDebtSummary(orders []*order.Order) Summary {
	summary := Summary{
		PerApartment: make(map[string]decimal.Decimal),
		TotalDebt:    decimal.Zero,
	}

	for _, o := range orders {
		if !qualifies(o) {
			continue
		}

		due := parsePrice(o.Price)
		summary.PerApartment[o.ApartmentNumber] = summary.PerApartment[o.ApartmentNumber].Add(due)
		summary.TotalDebt = summary.TotalDebt.Add(due)
	}

	summary.DebtorCount = len(summary.PerApartment)

	return summary
}

// FullPayment settles every outstanding order of the apartment. The result
// is one IsPaid update per qualifying order; an apartment with no debt
// produces an empty list, not an error.
func FullPayment(apartmentNumber string, orders []*order.Order) []Update {
	var updates []Update

	for _, o := range orders {
		if o.ApartmentNumber != apartmentNumber || !qualifies(o) {
			continue
		}

		paid := true
		updates = append(updates, Update{OrderID: o.ID, IsPaid: &paid})
	}

	return updates
}

// PartialPayment allocates amount across the apartment's outstanding orders
// oldest-first. Orders fully covered flip IsPaid; the first order the
// remainder cannot cover keeps IsPaid false and has its price reduced to
// what is still owed. Anything beyond the total debt is discarded, not
// carried forward.
func PartialPayment(apartmentNumber string, amount decimal.Decimal, orders []*order.Order) ([]Update, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	var outstanding []*order.Order

	for _, o := range orders {
		if o.ApartmentNumber == apartmentNumber && qualifies(o) {
			outstanding = append(outstanding, o)
		}
	}

	sort.SliceStable(outstanding, func(i, j int) bool {
		return outstanding[i].CreatedAt.Before(outstanding[j].CreatedAt)
	})

	remaining := amount

	var updates []Update

	for _, o := range outstanding {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		due := parsePrice(o.Price)

		if remaining.GreaterThanOrEqual(due) {
			paid := true
			updates = append(updates, Update{OrderID: o.ID, IsPaid: &paid})
			remaining = remaining.Sub(due)

			continue
		}

		residual := due.Sub(remaining).String()
		updates = append(updates, Update{OrderID: o.ID, Price: &residual})
		remaining = decimal.Zero
	}

	return updates, nil
}
