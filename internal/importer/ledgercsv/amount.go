package ledgercsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseTurkishAmount parses a Turkish-formatted amount string.
// Format examples: "1.234,56", "12,50", "150".
//
// Alongside the value it returns the unsigned dot-decimal text of the cell,
// digit for digit: "12,50" stays "12.50", which decimal's own String would
// collapse to "12.5".
func parseTurkishAmount(s string) (decimal.Decimal, string, error) {
	clean := strings.TrimSuffix(strings.TrimSpace(s), "₺")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "TL")
	clean = strings.TrimSpace(clean)
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	return d, strings.TrimPrefix(clean, "-"), nil
}

// parsePaidFlag interprets the paid-flag cell of the spreadsheet export.
// The legacy files use a mix of Turkish words, single letters and crosses.
func parsePaidFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "evet", "e", "ödendi", "x", "✓", "1", "true":
		return true
	}

	return false
}
