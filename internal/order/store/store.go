package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOrderColumns = `
	id, apartment_number, order_text, contact_info, is_trash_collection,
	order_type, time_message, status, price, is_paid, payment_note,
	created_at, updated_at
`

func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order

	var typeStr, statusStr string

	var price, note sql.NullString

	if err := s.Scan(
		&o.ID, &o.ApartmentNumber, &o.OrderText, &o.ContactInfo, &o.IsTrashCollection,
		&typeStr, &o.TimeMessage, &statusStr, &price, &o.IsPaid, &note,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.Type = order.Type(typeStr)
	o.Status = order.Status(statusStr)
	o.Price = price.String
	o.PaymentNote = note.String

	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (id, apartment_number, order_text, contact_info, is_trash_collection,
			order_type, time_message, status, price, is_paid, payment_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.db.ExecContext(ctx, query,
		o.ID,
		o.ApartmentNumber,
		o.OrderText,
		o.ContactInfo,
		o.IsTrashCollection,
		o.Type,
		o.TimeMessage,
		o.Status,
		nullable(o.Price),
		o.IsPaid,
		nullable(o.PaymentNote),
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order: %w", err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	return o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders ORDER BY created_at ASC`

	return s.queryOrders(ctx, query)
}

func (s *Store) ListApartmentOrders(ctx context.Context, apartmentNumber string) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE apartment_number = $1 ORDER BY created_at ASC`

	return s.queryOrders(ctx, query, apartmentNumber)
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...any) ([]*order.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *order.Order) error {
	query := `
		UPDATE orders
		SET order_text = $1, contact_info = $2, status = $3, price = $4,
			is_paid = $5, payment_note = $6, updated_at = $7
		WHERE id = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		o.OrderText,
		o.ContactInfo,
		o.Status,
		nullable(o.Price),
		o.IsPaid,
		nullable(o.PaymentNote),
		o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return order.ErrNotFound
	}

	return nil
}

// ApplyUpdates runs a settlement batch inside one database transaction.
// Unlike the file and sheet stores this makes the batch atomic, which the
// sequential caller contract permits.
func (s *Store) ApplyUpdates(ctx context.Context, updates []ledger.Update) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning settlement tx: %w", err)
	}
	defer dbTx.Rollback()

	for _, u := range updates {
		var res sql.Result

		switch {
		case u.IsPaid != nil:
			res, err = dbTx.ExecContext(ctx,
				`UPDATE orders SET is_paid = $1, updated_at = NOW() WHERE id = $2`,
				*u.IsPaid, u.OrderID)
		case u.Price != nil:
			res, err = dbTx.ExecContext(ctx,
				`UPDATE orders SET price = $1, updated_at = NOW() WHERE id = $2`,
				*u.Price, u.OrderID)
		default:
			continue
		}

		if err != nil {
			return fmt.Errorf("applying update for order %s: %w", u.OrderID, err)
		}

		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("applying update for order %s: %w", u.OrderID, order.ErrNotFound)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing settlement: %w", err)
	}

	return nil
}
