// Package sheets persists orders, apartments and users in a Google
// spreadsheet, one tab per record kind. Reads pull the full data range;
// mutations clear the range and rewrite every row. That keeps the sheet
// hand-editable by the building management at the cost of write volume,
// which is negligible at one building of orders.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/ozank/kapici/internal/apartment"
	"github.com/ozank/kapici/internal/auth"
	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
)

const (
	ordersSheet     = "Orders"
	apartmentsSheet = "Apartments"
	usersSheet      = "Users"

	ordersRange     = ordersSheet + "!A2:M"
	apartmentsRange = apartmentsSheet + "!A2:B"
	usersRange      = usersSheet + "!A2:D"
)

var ordersHeader = []any{
	"id", "apartmentNumber", "orderText", "contactInfo", "isTrashCollection",
	"orderType", "orderTimeMessage", "status", "createdAt", "updatedAt",
	"price", "isPaid", "paymentNote",
}

var apartmentsHeader = []any{"number", "contactInfo"}

var usersHeader = []any{"id", "apartmentNumber", "passwordHash", "createdAt"}

type Store struct {
	mu            sync.Mutex
	svc           *sheetsapi.Service
	spreadsheetID string
}

// New builds a Store from service account credentials JSON and verifies the
// three data sheets exist, creating any that are missing.
func New(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Store, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	store := &Store{svc: svc, spreadsheetID: spreadsheetID}

	if err := store.ensureSheets(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) ensureSheets(ctx context.Context) error {
	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading spreadsheet %s: %w", s.spreadsheetID, err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		existing[sheet.Properties.Title] = true
	}

	headers := map[string][]any{
		ordersSheet:     ordersHeader,
		apartmentsSheet: apartmentsHeader,
		usersSheet:      usersHeader,
	}

	for _, title := range []string{ordersSheet, apartmentsSheet, usersSheet} {
		if existing[title] {
			continue
		}

		addReq := &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: []*sheetsapi.Request{{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: title},
				},
			}},
		}

		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, addReq).Context(ctx).Do(); err != nil {
			return fmt.Errorf("creating sheet %s: %w", title, err)
		}

		headerRange := title + "!A1"
		values := &sheetsapi.ValueRange{Values: [][]any{headers[title]}}

		if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, headerRange, values).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("writing header for sheet %s: %w", title, err)
		}
	}

	return nil
}

func (s *Store) readRange(ctx context.Context, readRange string) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %s: %w", readRange, err)
	}

	return resp.Values, nil
}

func (s *Store) rewriteRange(ctx context.Context, dataRange string, rows [][]any) error {
	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, dataRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing range %s: %w", dataRange, err)
	}

	if len(rows) == 0 {
		return nil
	}

	values := &sheetsapi.ValueRange{Values: rows}

	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, dataRange, values).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("writing range %s: %w", dataRange, err)
	}

	return nil
}

func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}

	s, _ := row[i].(string)

	return s
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func orderToRow(o *order.Order) []any {
	return []any{
		o.ID.String(),
		o.ApartmentNumber,
		o.OrderText,
		o.ContactInfo,
		strconv.FormatBool(o.IsTrashCollection),
		string(o.Type),
		o.TimeMessage,
		string(o.Status),
		o.CreatedAt.Format(time.RFC3339),
		o.UpdatedAt.Format(time.RFC3339),
		o.Price,
		strconv.FormatBool(o.IsPaid),
		o.PaymentNote,
	}
}

func orderFromRow(row []any) (*order.Order, error) {
	id, err := uuid.Parse(cell(row, 0))
	if err != nil {
		return nil, fmt.Errorf("parsing order id %q: %w", cell(row, 0), err)
	}

	return &order.Order{
		ID:                id,
		ApartmentNumber:   cell(row, 1),
		OrderText:         cell(row, 2),
		ContactInfo:       cell(row, 3),
		IsTrashCollection: parseBool(cell(row, 4)),
		Type:              order.Type(cell(row, 5)),
		TimeMessage:       cell(row, 6),
		Status:            order.Status(cell(row, 7)),
		CreatedAt:         parseTime(cell(row, 8)),
		UpdatedAt:         parseTime(cell(row, 9)),
		Price:             cell(row, 10),
		IsPaid:            parseBool(cell(row, 11)),
		PaymentNote:       cell(row, 12),
	}, nil
}

func (s *Store) readAllOrders(ctx context.Context) ([]*order.Order, error) {
	rows, err := s.readRange(ctx, ordersRange)
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(rows))

	for _, row := range rows {
		if cell(row, 0) == "" {
			continue
		}

		o, err := orderFromRow(row)
		if err != nil {
			return nil, err
		}

		orders = append(orders, o)
	}

	return orders, nil
}

func (s *Store) rewriteOrders(ctx context.Context, orders []*order.Order) error {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderToRow(o))
	}

	return s.rewriteRange(ctx, ordersRange, rows)
}

// --- order.Repository ---

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := &sheetsapi.ValueRange{Values: [][]any{orderToRow(o)}}

	if _, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, ordersRange, values).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do(); err != nil {
		return fmt.Errorf("appending order row: %w", err)
	}

	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}

	return nil, order.ErrNotFound
}

func (s *Store) ListOrders(ctx context.Context) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readAllOrders(ctx)
}

func (s *Store) ListApartmentOrders(ctx context.Context, apartmentNumber string) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*order.Order, 0, len(orders))

	for _, o := range orders {
		if o.ApartmentNumber == apartmentNumber {
			filtered = append(filtered, o)
		}
	}

	return filtered, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readAllOrders(ctx)
	if err != nil {
		return err
	}

	for i, existing := range orders {
		if existing.ID == o.ID {
			orders[i] = o
			return s.rewriteOrders(ctx, orders)
		}
	}

	return order.ErrNotFound
}

func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readAllOrders(ctx)
	if err != nil {
		return err
	}

	for i, o := range orders {
		if o.ID == id {
			orders = append(orders[:i], orders[i+1:]...)
			return s.rewriteOrders(ctx, orders)
		}
	}

	return order.ErrNotFound
}

// --- ledger.Repository ---

// ApplyUpdates rewrites the orders sheet once with all updates applied. A
// missing order id fails the whole batch before anything is written, since
// the rewrite only happens after every update has been matched to a row.
func (s *Store) ApplyUpdates(ctx context.Context, updates []ledger.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readAllOrders(ctx)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*order.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	for _, u := range updates {
		o, ok := byID[u.OrderID]
		if !ok {
			return fmt.Errorf("applying update for order %s: %w", u.OrderID, order.ErrNotFound)
		}

		if u.IsPaid != nil {
			o.IsPaid = *u.IsPaid
		}

		if u.Price != nil {
			o.Price = *u.Price
		}

		o.UpdatedAt = time.Now()
	}

	if len(updates) == 0 {
		return nil
	}

	return s.rewriteOrders(ctx, orders)
}

// --- apartment.Repository ---

func (s *Store) ListApartments(ctx context.Context) ([]apartment.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRange(ctx, apartmentsRange)
	if err != nil {
		return nil, err
	}

	apts := make([]apartment.Apartment, 0, len(rows))

	for _, row := range rows {
		if cell(row, 0) == "" {
			continue
		}

		apts = append(apts, apartment.Apartment{Number: cell(row, 0), ContactInfo: cell(row, 1)})
	}

	return apts, nil
}

func (s *Store) RecordApartment(ctx context.Context, apt apartment.Apartment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRange(ctx, apartmentsRange)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if cell(row, 0) == apt.Number {
			return nil
		}
	}

	values := &sheetsapi.ValueRange{Values: [][]any{{apt.Number, apt.ContactInfo}}}

	if _, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, apartmentsRange, values).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do(); err != nil {
		return fmt.Errorf("appending apartment row: %w", err)
	}

	return nil
}

// --- auth.Repository ---

func (s *Store) GetUser(ctx context.Context, apartmentNumber string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRange(ctx, usersRange)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if cell(row, 1) != apartmentNumber {
			continue
		}

		id, err := uuid.Parse(cell(row, 0))
		if err != nil {
			return nil, fmt.Errorf("parsing user id %q: %w", cell(row, 0), err)
		}

		return &auth.User{
			ID:              id,
			ApartmentNumber: cell(row, 1),
			PasswordHash:    cell(row, 2),
			CreatedAt:       parseTime(cell(row, 3)),
		}, nil
	}

	return nil, auth.ErrUserNotFound
}

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := &sheetsapi.ValueRange{Values: [][]any{{
		u.ID.String(),
		u.ApartmentNumber,
		u.PasswordHash,
		u.CreatedAt.Format(time.RFC3339),
	}}}

	if _, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, usersRange, values).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do(); err != nil {
		return fmt.Errorf("appending user row: %w", err)
	}

	return nil
}
