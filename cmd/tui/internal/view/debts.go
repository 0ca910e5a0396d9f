package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/ozank/kapici/internal/ledger"
)

type debtsState int

const (
	debtsStateBrowse debtsState = iota
	debtsStateSettle
)

type debtRow struct {
	apartment string
	debt      decimal.Decimal
}

type DebtsModel struct {
	CommonModel
	ledgerService *ledger.Service

	state   debtsState
	table   table.Model
	rows    []debtRow
	summary ledger.Summary
	form    *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formAmount string
}

func NewDebtsModel(ledgerSvc *ledger.Service) DebtsModel {
	columns := []table.Column{
		{Title: "Apartment", Width: 12},
		{Title: "Debt", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DebtsModel{
		ledgerService: ledgerSvc,
		table:         t,
	}
}

func (m DebtsModel) Title() string { return "Debts" }

func (m DebtsModel) ShortHelp() string {
	if m.state == debtsStateSettle {
		return "Enter amount (empty = settle all) | Esc: cancel"
	}

	return "Esc: back | Enter: record payment | r: refresh"
}

func (m DebtsModel) Init() tea.Cmd {
	return m.loadSummaryCmd()
}

func (m DebtsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSummaryMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case settledMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Payment recorded for %s", msg.apartment)
		}

		m.state = debtsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadSummaryCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case debtsStateBrowse:
		return m.updateBrowse(msg)
	case debtsStateSettle:
		return m.updateSettle(msg)
	}

	return m, nil
}

func (m DebtsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadSummaryCmd()
		case "enter":
			return m.enterSettleMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DebtsModel) selectedRow() *debtRow {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	return &m.rows[idx]
}

func (m DebtsModel) enterSettleMode() (tea.Model, tea.Cmd) {
	row := m.selectedRow()
	if row == nil {
		return m, nil
	}

	m.formAmount = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Payment from %s (owes %s)", row.apartment, row.debt)).
				Placeholder("empty settles everything").
				Value(&m.formAmount).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}

					d, err := decimal.NewFromString(s)
					if err != nil || !d.IsPositive() {
						return fmt.Errorf("enter a positive amount")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = debtsStateSettle
	m.table.Blur()

	return m, m.form.Init()
}

func (m DebtsModel) updateSettle(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = debtsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.settleCmd()
}

func (m DebtsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading debts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Total outstanding: %s across %d apartments",
		activeStyle(m.summary.TotalDebt.String()), m.summary.DebtorCount)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == debtsStateSettle && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Record Payment\n\n%s", m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DebtsModel) refreshTable() {
	m.rows = m.rows[:0]

	for apt, debt := range m.summary.PerApartment {
		m.rows = append(m.rows, debtRow{apartment: apt, debt: debt})
	}

	// Largest debt first, apartment number breaks ties.
	sort.Slice(m.rows, func(i, j int) bool {
		if !m.rows[i].debt.Equal(m.rows[j].debt) {
			return m.rows[i].debt.GreaterThan(m.rows[j].debt)
		}

		return m.rows[i].apartment < m.rows[j].apartment
	})

	rows := make([]table.Row, 0, len(m.rows))
	for _, row := range m.rows {
		rows = append(rows, table.Row{row.apartment, row.debt.String()})
	}

	m.table.SetRows(rows)
}

// Messages

type loadSummaryMsg struct {
	summary ledger.Summary
	err     error
}

func (m DebtsModel) loadSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		summary, err := m.ledgerService.DebtSummary(ctx)

		return loadSummaryMsg{summary: summary, err: err}
	}
}

type settledMsg struct {
	apartment string
	err       error
}

func (m DebtsModel) settleCmd() tea.Cmd {
	row := m.selectedRow()
	if row == nil {
		return nil
	}

	apt := row.apartment
	amount := strings.TrimSpace(m.formAmount)

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var err error

		if amount == "" {
			_, err = m.ledgerService.SettleFull(ctx, apt)
		} else {
			d, parseErr := decimal.NewFromString(amount)
			if parseErr != nil {
				return settledMsg{apartment: apt, err: parseErr}
			}

			_, err = m.ledgerService.SettlePartial(ctx, apt, d)
		}

		return settledMsg{apartment: apt, err: err}
	}
}
