// Package jsonfile persists orders, apartments and users in two JSON
// documents, format-compatible with the data files of the legacy
// deployment. Every mutation rewrites the whole document; a process-local
// mutex serializes access, which is enough under the single-staff-writer
// assumption the service runs with.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ozank/kapici/internal/apartment"
	"github.com/ozank/kapici/internal/auth"
	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
)

const (
	ordersFile = "apartment-orders.json"
	usersFile  = "apartment-users.json"
)

type Store struct {
	mu         sync.Mutex
	ordersPath string
	usersPath  string
}

func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	return &Store{
		ordersPath: filepath.Join(dataDir, ordersFile),
		usersPath:  filepath.Join(dataDir, usersFile),
	}, nil
}

type orderRecord struct {
	ID                string    `json:"id"`
	ApartmentNumber   string    `json:"apartmentNumber"`
	OrderText         string    `json:"orderText"`
	ContactInfo       string    `json:"contactInfo"`
	IsTrashCollection bool      `json:"isTrashCollection"`
	OrderType         string    `json:"orderType,omitempty"`
	OrderTimeMessage  string    `json:"orderTimeMessage,omitempty"`
	Status            string    `json:"status"`
	Price             string    `json:"price,omitempty"`
	IsPaid            bool      `json:"isPaid"`
	PaymentNote       string    `json:"paymentNote,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type apartmentRecord struct {
	Number      string `json:"number"`
	ContactInfo string `json:"contactInfo"`
}

type ordersDoc struct {
	Orders     []orderRecord     `json:"orders"`
	Apartments []apartmentRecord `json:"apartments"`
}

type userRecord struct {
	ID              string    `json:"id"`
	ApartmentNumber string    `json:"apartmentNumber"`
	PasswordHash    string    `json:"passwordHash"`
	CreatedAt       time.Time `json:"createdAt"`
}

type usersDoc struct {
	Users []userRecord `json:"users"`
}

func toRecord(o *order.Order) orderRecord {
	return orderRecord{
		ID:                o.ID.String(),
		ApartmentNumber:   o.ApartmentNumber,
		OrderText:         o.OrderText,
		ContactInfo:       o.ContactInfo,
		IsTrashCollection: o.IsTrashCollection,
		OrderType:         string(o.Type),
		OrderTimeMessage:  o.TimeMessage,
		Status:            string(o.Status),
		Price:             o.Price,
		IsPaid:            o.IsPaid,
		PaymentNote:       o.PaymentNote,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func fromRecord(rec orderRecord) (*order.Order, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing order id %q: %w", rec.ID, err)
	}

	return &order.Order{
		ID:                id,
		ApartmentNumber:   rec.ApartmentNumber,
		OrderText:         rec.OrderText,
		ContactInfo:       rec.ContactInfo,
		IsTrashCollection: rec.IsTrashCollection,
		Type:              order.Type(rec.OrderType),
		TimeMessage:       rec.OrderTimeMessage,
		Status:            order.Status(rec.Status),
		Price:             rec.Price,
		IsPaid:            rec.IsPaid,
		PaymentNote:       rec.PaymentNote,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}, nil
}

func (s *Store) loadOrders() (*ordersDoc, error) {
	data, err := os.ReadFile(s.ordersPath)
	if errors.Is(err, os.ErrNotExist) {
		return &ordersDoc{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.ordersPath, err)
	}

	var doc ordersDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.ordersPath, err)
	}

	return &doc, nil
}

func (s *Store) saveOrders(doc *ordersDoc) error {
	return writeJSON(s.ordersPath, doc)
}

func (s *Store) loadUsers() (*usersDoc, error) {
	data, err := os.ReadFile(s.usersPath)
	if errors.Is(err, os.ErrNotExist) {
		return &usersDoc{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.usersPath, err)
	}

	var doc usersDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.usersPath, err)
	}

	return &doc, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// --- order.Repository ---

func (s *Store) CreateOrder(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return err
	}

	doc.Orders = append(doc.Orders, toRecord(o))

	return s.saveOrders(doc)
}

func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return nil, err
	}

	for _, rec := range doc.Orders {
		if rec.ID == id.String() {
			return fromRecord(rec)
		}
	}

	return nil, order.ErrNotFound
}

func (s *Store) ListOrders(_ context.Context) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(doc.Orders))

	for _, rec := range doc.Orders {
		o, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}

		orders = append(orders, o)
	}

	return orders, nil
}

func (s *Store) ListApartmentOrders(ctx context.Context, apartmentNumber string) ([]*order.Order, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	filtered := orders[:0]

	for _, o := range orders {
		if o.ApartmentNumber == apartmentNumber {
			filtered = append(filtered, o)
		}
	}

	return filtered, nil
}

func (s *Store) UpdateOrder(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return err
	}

	for i, rec := range doc.Orders {
		if rec.ID == o.ID.String() {
			doc.Orders[i] = toRecord(o)
			return s.saveOrders(doc)
		}
	}

	return order.ErrNotFound
}

func (s *Store) DeleteOrder(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return err
	}

	for i, rec := range doc.Orders {
		if rec.ID == id.String() {
			doc.Orders = append(doc.Orders[:i], doc.Orders[i+1:]...)
			return s.saveOrders(doc)
		}
	}

	return order.ErrNotFound
}

// --- ledger.Repository ---

// ApplyUpdates applies settlement updates to the document in order. When an
// update targets an id no longer present, the updates already applied are
// still written out before the error is returned: the batch is at-least-once,
// not atomic, exactly like the sheet-backed legacy deployment.
func (s *Store) ApplyUpdates(_ context.Context, updates []ledger.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return err
	}

	byID := make(map[string]int, len(doc.Orders))
	for i, rec := range doc.Orders {
		byID[rec.ID] = i
	}

	var applyErr error

	applied := 0

	for _, u := range updates {
		i, ok := byID[u.OrderID.String()]
		if !ok {
			applyErr = fmt.Errorf("applying update for order %s: %w", u.OrderID, order.ErrNotFound)
			break
		}

		if u.IsPaid != nil {
			doc.Orders[i].IsPaid = *u.IsPaid
		}

		if u.Price != nil {
			doc.Orders[i].Price = *u.Price
		}

		doc.Orders[i].UpdatedAt = time.Now()
		applied++
	}

	if applied > 0 {
		if err := s.saveOrders(doc); err != nil {
			return err
		}
	}

	return applyErr
}

// --- apartment.Repository ---

func (s *Store) ListApartments(_ context.Context) ([]apartment.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return nil, err
	}

	apts := make([]apartment.Apartment, 0, len(doc.Apartments))

	for _, rec := range doc.Apartments {
		apts = append(apts, apartment.Apartment{Number: rec.Number, ContactInfo: rec.ContactInfo})
	}

	return apts, nil
}

func (s *Store) RecordApartment(_ context.Context, apt apartment.Apartment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadOrders()
	if err != nil {
		return err
	}

	for _, rec := range doc.Apartments {
		if rec.Number == apt.Number {
			return nil
		}
	}

	doc.Apartments = append(doc.Apartments, apartmentRecord{Number: apt.Number, ContactInfo: apt.ContactInfo})

	return s.saveOrders(doc)
}

// --- auth.Repository ---

func (s *Store) GetUser(_ context.Context, apartmentNumber string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	for _, rec := range doc.Users {
		if rec.ApartmentNumber == apartmentNumber {
			id, err := uuid.Parse(rec.ID)
			if err != nil {
				return nil, fmt.Errorf("parsing user id %q: %w", rec.ID, err)
			}

			return &auth.User{
				ID:              id,
				ApartmentNumber: rec.ApartmentNumber,
				PasswordHash:    rec.PasswordHash,
				CreatedAt:       rec.CreatedAt,
			}, nil
		}
	}

	return nil, auth.ErrUserNotFound
}

func (s *Store) CreateUser(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadUsers()
	if err != nil {
		return err
	}

	doc.Users = append(doc.Users, userRecord{
		ID:              u.ID.String(),
		ApartmentNumber: u.ApartmentNumber,
		PasswordHash:    u.PasswordHash,
		CreatedAt:       u.CreatedAt,
	})

	return writeJSON(s.usersPath, doc)
}
