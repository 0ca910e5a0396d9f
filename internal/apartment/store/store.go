package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ozank/kapici/internal/apartment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListApartments(ctx context.Context) ([]apartment.Apartment, error) {
	query := `SELECT number, contact_info FROM apartments ORDER BY number ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing apartments: %w", err)
	}
	defer rows.Close()

	var apts []apartment.Apartment

	for rows.Next() {
		var a apartment.Apartment
		if err := rows.Scan(&a.Number, &a.ContactInfo); err != nil {
			return nil, fmt.Errorf("scanning apartment: %w", err)
		}

		apts = append(apts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating apartment rows: %w", err)
	}

	return apts, nil
}

func (s *Store) RecordApartment(ctx context.Context, apt apartment.Apartment) error {
	query := `
		INSERT INTO apartments (number, contact_info)
		VALUES ($1, $2)
		ON CONFLICT (number) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, apt.Number, apt.ContactInfo)
	if err != nil {
		return fmt.Errorf("recording apartment: %w", err)
	}

	return nil
}
