package importer

import (
	"fmt"
	"io"

	"github.com/ozank/kapici/internal/importer/ledgercsv"
	"github.com/ozank/kapici/internal/order"
)

type Service struct {
	ledgerImporter Importer
}

func NewService() *Service {
	return &Service{
		ledgerImporter: ledgercsv.NewParser(),
	}
}

func (s *Service) Import(source Source, r io.Reader) ([]order.RestoreParams, error) {
	var importer Importer

	switch source {
	case SourceLedger:
		importer = s.ledgerImporter
	default:
		return nil, fmt.Errorf("unknown import source: %s", source)
	}

	return importer.Parse(r)
}
