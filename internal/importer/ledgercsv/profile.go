package ledgercsv

// amountMode determines how amounts and paid flags are extracted from a row.
type amountMode int

const (
	// amountSingle means one amount column plus a separate paid-flag column
	// (e.g. "Tutar" with "Ödendi" holding Evet/Hayır).
	amountSingle amountMode = iota
	// amountSplit means separate unpaid and paid columns (e.g. "Borç"/"Ödenen"):
	// a value under "Borç" is an outstanding order, one under "Ödenen" is settled.
	amountSplit
)

// Profile describes the column layout of a legacy ledger export format.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name       string
	DateCol    string
	AptCol     string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	PaidCol    string // used when AmountMode == amountSingle
	DebtCol    string // used when AmountMode == amountSplit
	SettledCol string // used when AmountMode == amountSplit
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.AptCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol, p.PaidCol)
	case amountSplit:
		cols = append(cols, p.DebtCol, p.SettledCol)
	}

	return cols
}

// profiles is the ordered list of legacy export formats to try during
// auto-detection. More specific profiles should come first to avoid false
// matches.
var profiles = []Profile{
	{
		Name:       "defter",
		DateCol:    "Tarih",
		AptCol:     "Daire",
		DescCol:    "Açıklama",
		AmountMode: amountSplit,
		DebtCol:    "Borç",
		SettledCol: "Ödenen",
	},
	{
		Name:       "tablo",
		DateCol:    "Tarih",
		AptCol:     "Daire",
		DescCol:    "Açıklama",
		AmountMode: amountSingle,
		AmountCol:  "Tutar",
		PaidCol:    "Ödendi",
	},
}
