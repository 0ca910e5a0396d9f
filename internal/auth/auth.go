// Package auth issues and verifies the tokens gating staff operations.
//
// The legacy deployment gated the staff panel with an ambient shared
// credential; here every settlement or queue mutation requires an explicit
// staff principal carried in the request token.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrUserNotFound is returned by repositories when no user exists for
	// an apartment number.
	ErrUserNotFound = errors.New("user not found")
)

type Role string

const (
	RoleResident Role = "resident"
	RoleStaff    Role = "staff"
)

// User is a resident account keyed by apartment number.
type User struct {
	ID              uuid.UUID
	ApartmentNumber string
	PasswordHash    string
	CreatedAt       time.Time
}

//go:generate mockgen -source=auth.go -destination=repository_mock.go -package=auth
type Repository interface {
	GetUser(ctx context.Context, apartmentNumber string) (*User, error)
	CreateUser(ctx context.Context, u *User) error
}

// Claims is the token payload: Subject holds the apartment number for
// residents and the username for staff.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	repo          Repository
	secret        []byte
	tokenTTL      time.Duration
	staffUsername string
	staffPassHash string
}

func NewService(repo Repository, secret string, tokenTTL time.Duration, staffUsername, staffPassHash string) *Service {
	return &Service{
		repo:          repo,
		secret:        []byte(secret),
		tokenTTL:      tokenTTL,
		staffUsername: staffUsername,
		staffPassHash: staffPassHash,
	}
}

// ResidentLogin authenticates an apartment. The first login registers the
// account with the supplied password, matching the legacy sign-in form's
// behavior; later logins must present the same password.
func (s *Service) ResidentLogin(ctx context.Context, apartmentNumber, password string) (string, *User, error) {
	apt := strings.ToUpper(strings.TrimSpace(apartmentNumber))
	if apt == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUser(ctx, apt)

	switch {
	case errors.Is(err, ErrUserNotFound):
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return "", nil, fmt.Errorf("hashing password: %w", hashErr)
		}

		user = &User{
			ID:              uuid.New(),
			ApartmentNumber: apt,
			PasswordHash:    string(hash),
			CreatedAt:       time.Now(),
		}

		if err := s.repo.CreateUser(ctx, user); err != nil {
			return "", nil, fmt.Errorf("registering user: %w", err)
		}
	case err != nil:
		return "", nil, fmt.Errorf("looking up user: %w", err)
	default:
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return "", nil, ErrInvalidCredentials
		}
	}

	token, err := s.issueToken(apt, RoleResident)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// StaffLogin checks the configured staff credential pair.
func (s *Service) StaffLogin(ctx context.Context, username, password string) (string, error) {
	if s.staffPassHash == "" {
		return "", ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(username), []byte(s.staffUsername)) != 1 {
		return "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(s.staffPassHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(username, RoleStaff)
}

func (s *Service) issueToken(subject string, role Role) (string, error) {
	now := time.Now()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

// ParseToken verifies a token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
