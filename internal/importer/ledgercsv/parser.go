package ledgercsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/ozank/kapici/internal/encoding"
	"github.com/ozank/kapici/internal/order"
)

// Parser reads legacy ledger CSV exports and produces restore params for
// historical orders. It auto-detects which export format (defter, tablo) is
// being used by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]order.RestoreParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching ledger format found: expected columns for defter or tablo")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts restore params from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]order.RestoreParams, error) {
	dateIdx := cols[p.DateCol]
	aptIdx := cols[p.AptCol]

	descIdx := -1
	if i, ok := cols[p.DescCol]; ok {
		descIdx = i
	}

	var params []order.RestoreParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		apt := cellValue(row, aptIdx)
		if apt == "" {
			return nil, fmt.Errorf("row %d: missing apartment number", rowNum)
		}

		price, isPaid, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			desc = "Defter kaydı"
		}

		params = append(params, order.RestoreParams{
			ApartmentNumber: apt,
			OrderText:       desc,
			Price:           price,
			IsPaid:          isPaid,
			CreatedAt:       date,
		})
	}

	return params, nil
}

// dateLayouts covers the formats seen across the legacy exports.
var dateLayouts = []string{"02.01.2006", "02/01/2006", "02-01-2006", "2006-01-02"}

// parseDate tries to parse a date from the given cell index.
// Returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount extracts the price and paid flag from a row based on the profile's amount mode.
func parseAmount(p *Profile, cols colIndex, row []string) (string, bool, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols[p.AmountCol], cols[p.PaidCol])
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebtCol], cols[p.SettledCol])
	}

	return "", false, false
}

// parseSingleAmount handles one amount column with a separate paid flag.
func parseSingleAmount(row []string, amountIdx, paidIdx int) (string, bool, bool) {
	s := cellValue(row, amountIdx)
	if s == "" {
		return "", false, false
	}

	d, text, err := parseTurkishAmount(s)
	if err != nil || d.IsZero() {
		return "", false, false
	}

	return text, parsePaidFlag(cellValue(row, paidIdx)), true
}

// parseSplitAmount handles separate outstanding/settled columns.
func parseSplitAmount(row []string, debtIdx, settledIdx int) (string, bool, bool) {
	if s := cellValue(row, debtIdx); s != "" {
		d, text, err := parseTurkishAmount(s)
		if err == nil && !d.IsZero() {
			return text, false, true
		}
	}

	if s := cellValue(row, settledIdx); s != "" {
		d, text, err := parseTurkishAmount(s)
		if err == nil && !d.IsZero() {
			return text, true, true
		}
	}

	return "", false, false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
