package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ozank/kapici/internal/apartment"
	apartmentStore "github.com/ozank/kapici/internal/apartment/store"
	"github.com/ozank/kapici/internal/auth"
	authStore "github.com/ozank/kapici/internal/auth/store"
	"github.com/ozank/kapici/internal/config"
	"github.com/ozank/kapici/internal/database"
	kapiciHttp "github.com/ozank/kapici/internal/http"
	apartmentHandler "github.com/ozank/kapici/internal/http/apartment"
	authHandler "github.com/ozank/kapici/internal/http/auth"
	importHandler "github.com/ozank/kapici/internal/http/importcsv"
	ledgerHandler "github.com/ozank/kapici/internal/http/ledger"
	orderHandler "github.com/ozank/kapici/internal/http/order"
	"github.com/ozank/kapici/internal/importer"
	"github.com/ozank/kapici/internal/ledger"
	"github.com/ozank/kapici/internal/order"
	orderStore "github.com/ozank/kapici/internal/order/store"
	"github.com/ozank/kapici/internal/storage/jsonfile"
	"github.com/ozank/kapici/internal/storage/sheets"
)

type repositories struct {
	orders     order.Repository
	ledger     ledger.Repository
	apartments apartment.Repository
	users      auth.Repository
	close      func()
}

func main() {
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
	defer repos.close()

	var (
		orderService     = order.NewService(repos.orders)
		ledgerService    = ledger.NewService(repos.ledger)
		apartmentService = apartment.NewService(repos.apartments, cfg.Building.Blocks, cfg.Building.UnitsPerBlock)
		importService    = importer.NewService()
		authService      = auth.NewService(
			repos.users,
			cfg.Auth.JWTSecret,
			cfg.Auth.TokenTTL,
			cfg.Auth.StaffUsername,
			cfg.Auth.StaffPasswordHash,
		)
	)

	router := kapiciHttp.New(kapiciHttp.Deps{
		Auth:       authHandler.NewHandler(authService),
		Orders:     orderHandler.NewHandler(orderService, apartmentService),
		Ledger:     ledgerHandler.NewHandler(ledgerService),
		Apartments: apartmentHandler.NewHandler(apartmentService),
		Import:     importHandler.NewHandler(importService, orderService),
		Verify:     authHandler.Verify(authService),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", addr, "backend", cfg.Storage.Backend)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func buildRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		orders := orderStore.New(db)

		return &repositories{
			orders:     orders,
			ledger:     orders,
			apartments: apartmentStore.New(db),
			users:      authStore.New(db),
			close:      func() { _ = db.Close() },
		}, nil

	case config.BackendSheets:
		store, err := sheets.New(ctx, []byte(cfg.Sheets.ServiceAccount), cfg.Sheets.SpreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("setting up sheets storage: %w", err)
		}

		return &repositories{
			orders:     store,
			ledger:     store,
			apartments: store,
			users:      store,
			close:      func() {},
		}, nil

	case config.BackendFile:
		store, err := jsonfile.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("setting up file storage: %w", err)
		}

		return &repositories{
			orders:     store,
			ledger:     store,
			apartments: store,
			users:      store,
			close:      func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
