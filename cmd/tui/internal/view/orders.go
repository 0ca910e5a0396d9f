package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ozank/kapici/internal/order"
)

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStateComplete
)

type OrdersModel struct {
	CommonModel
	orderService *order.Service

	state  ordersState
	table  table.Model
	orders []*order.Order
	form   *huh.Form

	// Filter cycling
	statusFilterIdx int

	loading bool
	err     error
	status  string

	// Form bindings
	formPrice string
	formPaid  bool
	formNote  string
}

func NewOrdersModel(orderSvc *order.Service) OrdersModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Apartment", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Price", Width: 10},
		{Title: "Paid", Width: 5},
		{Title: "Order", Width: 40},
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

	return OrdersModel{
		orderService: orderSvc,
		table:        t,
	}
}

func (m OrdersModel) Title() string { return "Orders" }

func (m OrdersModel) ShortHelp() string {
	if m.state == ordersStateComplete {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | c: complete | v: revert | x: cancel order | s: status filter | r: refresh"
}

func (m OrdersModel) Init() tea.Cmd {
	return m.loadOrdersCmd()
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOrdersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.orders = msg.orders
		m.refreshTable()

		return m, nil

	case orderSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadOrdersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ordersStateBrowse:
		return m.updateBrowse(msg)
	case ordersStateComplete:
		return m.updateComplete(msg)
	}

	return m, nil
}

func (m OrdersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadOrdersCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.refreshTable()

			return m, nil
		case "c":
			return m.enterCompleteMode()
		case "v":
			return m.transitionSelected(m.orderService.Revert)
		case "x":
			return m.transitionSelected(m.orderService.Cancel)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m OrdersModel) selectedOrder() *order.Order {
	idx := m.table.Cursor()

	visible := m.visibleOrders()
	if idx < 0 || idx >= len(visible) {
		return nil
	}

	return visible[idx]
}

func (m OrdersModel) enterCompleteMode() (tea.Model, tea.Cmd) {
	o := m.selectedOrder()
	if o == nil || o.Status != order.StatusPending {
		m.status = "Only pending orders can be completed"
		return m, nil
	}

	m.formPrice = o.Price
	m.formPaid = false
	m.formNote = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("price").
				Title("Price").
				Placeholder("12.50").
				Value(&m.formPrice).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return fmt.Errorf("enter a non-negative amount")
					}

					return nil
				}),

			huh.NewConfirm().
				Key("paid").
				Title("Paid on delivery?").
				Value(&m.formPaid),

			huh.NewInput().
				Key("note").
				Title("Payment note").
				Value(&m.formNote),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ordersStateComplete
	m.table.Blur()

	return m, m.form.Init()
}

func (m OrdersModel) updateComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = ordersStateBrowse
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

	return m, m.completeCmd()
}

func (m OrdersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Pending", "Completed", "Cancelled"}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(statusLabels[m.statusFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == ordersStateComplete && m.form != nil {
		title := "Complete Order"
		if o := m.selectedOrder(); o != nil {
			title = fmt.Sprintf("Complete Order\n\n%s: %s", o.ApartmentNumber, o.OrderText)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m OrdersModel) visibleOrders() []*order.Order {
	statusFilters := []order.Status{"", order.StatusPending, order.StatusCompleted, order.StatusCancelled}

	want := statusFilters[m.statusFilterIdx]
	if want == "" {
		return m.orders
	}

	visible := make([]*order.Order, 0, len(m.orders))

	for _, o := range m.orders {
		if o.Status == want {
			visible = append(visible, o)
		}
	}

	return visible
}

func (m *OrdersModel) refreshTable() {
	visible := m.visibleOrders()

	rows := make([]table.Row, 0, len(visible))
	for _, o := range visible {
		paid := ""
		if o.IsPaid {
			paid = "yes"
		}

		rows = append(rows, table.Row{
			FormatDate(o.CreatedAt),
			o.ApartmentNumber,
			string(o.Status),
			FormatPrice(o.Price),
			paid,
			o.OrderText,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadOrdersMsg struct {
	orders []*order.Order
	err    error
}

func (m OrdersModel) loadOrdersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		orders, err := m.orderService.List(ctx)

		return loadOrdersMsg{orders: orders, err: err}
	}
}

type orderSavedMsg struct {
	err error
}

func (m OrdersModel) completeCmd() tea.Cmd {
	o := m.selectedOrder()
	if o == nil {
		return nil
	}

	id := o.ID
	price := strings.TrimSpace(m.formPrice)
	paid := m.formPaid
	note := m.formNote

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		_, err := m.orderService.Complete(ctx, id, price, paid, note)

		return orderSavedMsg{err: err}
	}
}

func (m OrdersModel) transitionSelected(fn func(ctx context.Context, id uuid.UUID) (*order.Order, error)) (tea.Model, tea.Cmd) {
	o := m.selectedOrder()
	if o == nil {
		return m, nil
	}

	id := o.ID

	return m, func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		_, err := fn(ctx, id)

		return orderSavedMsg{err: err}
	}
}
