package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ozank/kapici/internal/auth"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetUser(ctx context.Context, apartmentNumber string) (*auth.User, error) {
	query := `
		SELECT id, apartment_number, password_hash, created_at
		FROM users
		WHERE apartment_number = $1
	`

	var u auth.User

	err := s.db.QueryRowContext(ctx, query, apartmentNumber).
		Scan(&u.ID, &u.ApartmentNumber, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrUserNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO users (id, apartment_number, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(ctx, query, u.ID, u.ApartmentNumber, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}
