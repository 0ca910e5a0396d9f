package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/ozank/kapici/cmd/tui/internal/view"
	"github.com/ozank/kapici/internal/config"
	"github.com/ozank/kapici/internal/database"
	"github.com/ozank/kapici/internal/importer"
	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
	orderStore "github.com/ozank/kapici/internal/order/store"
	"github.com/ozank/kapici/internal/storage/jsonfile"
	"github.com/ozank/kapici/internal/storage/sheets"
)

type model struct {
	orderService  *order.Service
	ledgerService *ledger.Service
	importService *importer.Service

	currentView View

	ordersView view.OrdersModel
	debtsView  view.DebtsModel
	importView view.ImportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewOrders View = 1
	ViewDebts  View = 2
	ViewImport View = 3
)

type repositories struct {
	orders order.Repository
	ledger ledger.Repository
}

func buildRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		orders := orderStore.New(db)

		return &repositories{orders: orders, ledger: orders}, nil

	case config.BackendSheets:
		store, err := sheets.New(ctx, []byte(cfg.Sheets.ServiceAccount), cfg.Sheets.SpreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("setting up sheets storage: %w", err)
		}

		return &repositories{orders: store, ledger: store}, nil

	case config.BackendFile:
		store, err := jsonfile.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("setting up file storage: %w", err)
		}

		return &repositories{orders: store, ledger: store}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repos, err := buildRepositories(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to set up storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	orderSvc := order.NewService(repos.orders)
	ledgerSvc := ledger.NewService(repos.ledger)
	impSvc := importer.NewService()

	return model{
		orderService:  orderSvc,
		ledgerService: ledgerSvc,
		importService: impSvc,
		currentView:   ViewMenu,
		ordersView:    view.NewOrdersModel(orderSvc),
		debtsView:     view.NewDebtsModel(ledgerSvc),
		importView:    view.NewImportModel(orderSvc, impSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOrders
				m.ordersView = view.NewOrdersModel(m.orderService)

				return m, m.ordersView.Init()
			case "2":
				m.currentView = ViewDebts
				m.debtsView = view.NewDebtsModel(m.ledgerService)

				return m, m.debtsView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.orderService, m.importService)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
	case ViewDebts:
		var newModel tea.Model
		newModel, cmd = m.debtsView.Update(msg)
		m.debtsView = newModel.(view.DebtsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Kapici TUI\n\n" +
				"1. Orders\n" +
				"2. Debts & Payments\n" +
				"3. Import Legacy Ledger\n\n" +
				"q. Quit",
		)
	case ViewOrders:
		return m.ordersView.View()
	case ViewDebts:
		return m.debtsView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
