package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const storeTimeout = 30 * time.Second

type CommonModel struct{}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatPrice renders a stored price cell for display.
func FormatPrice(price string) string {
	if price == "" {
		return "-"
	}

	return price
}

// StoreCtx returns a context with a standard timeout for storage operations.
// Generous because the sheets backend round-trips to the Google API.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
