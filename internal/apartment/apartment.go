package apartment

import (
	"context"
	"fmt"
	"strings"
)

// Unit is one selectable apartment in the building catalog.
type Unit struct {
	Value string // e.g. "A1"
	Label string // e.g. "Block A - Apartment 1"
}

// Apartment is a unit the service has seen at least one order from.
type Apartment struct {
	Number      string
	ContactInfo string
}

//go:generate mockgen -source=apartment.go -destination=repository_mock.go -package=apartment
type Repository interface {
	ListApartments(ctx context.Context) ([]Apartment, error)
	RecordApartment(ctx context.Context, apt Apartment) error
}

type Service struct {
	repo          Repository
	blocks        []string
	unitsPerBlock int
}

func NewService(repo Repository, blocks []string, unitsPerBlock int) *Service {
	return &Service{repo: repo, blocks: blocks, unitsPerBlock: unitsPerBlock}
}

// Units enumerates every unit in the building, block by block.
func (s *Service) Units() []Unit {
	units := make([]Unit, 0, len(s.blocks)*s.unitsPerBlock)

	for _, block := range s.blocks {
		for i := 1; i <= s.unitsPerBlock; i++ {
			units = append(units, Unit{
				Value: fmt.Sprintf("%s%d", block, i),
				Label: fmt.Sprintf("Block %s - Apartment %d", block, i),
			})
		}
	}

	return units
}

// List returns the apartments known from order history.
func (s *Service) List(ctx context.Context) ([]Apartment, error) {
	return s.repo.ListApartments(ctx)
}

// Record remembers an apartment the first time it places an order.
// Recording an already-known apartment is a no-op in every store.
func (s *Service) Record(ctx context.Context, number, contactInfo string) error {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil
	}

	return s.repo.RecordApartment(ctx, Apartment{Number: number, ContactInfo: contactInfo})
}
