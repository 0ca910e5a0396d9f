package importer

import (
	"io"

	"github.com/ozank/kapici/internal/order"
)

type Source string

const (
	SourceLedger Source = "ledger"
)

type Importer interface {
	Parse(r io.Reader) ([]order.RestoreParams, error)
}
