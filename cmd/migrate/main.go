// Command migrate copies the JSON-file data into the Google spreadsheet, for
// switching a deployment from STORAGE_BACKEND=file to sheets.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ozank/kapici/internal/config"
	"github.com/ozank/kapici/internal/storage/jsonfile"
	"github.com/ozank/kapici/internal/storage/sheets"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	src, err := jsonfile.New(cfg.Storage.DataDir)
	if err != nil {
		slog.Error("failed to open file storage", "dir", cfg.Storage.DataDir, "error", err)
		os.Exit(1)
	}

	dst, err := sheets.New(ctx, []byte(cfg.Sheets.ServiceAccount), cfg.Sheets.SpreadsheetID)
	if err != nil {
		slog.Error("failed to open sheets storage", "error", err)
		os.Exit(1)
	}

	orders, err := src.ListOrders(ctx)
	if err != nil {
		slog.Error("failed to read orders", "error", err)
		os.Exit(1)
	}

	for _, o := range orders {
		if err := dst.CreateOrder(ctx, o); err != nil {
			slog.Error("failed to migrate order", "id", o.ID, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("migrated orders", "count", len(orders))

	apartments, err := src.ListApartments(ctx)
	if err != nil {
		slog.Error("failed to read apartments", "error", err)
		os.Exit(1)
	}

	for _, apt := range apartments {
		if err := dst.RecordApartment(ctx, apt); err != nil {
			slog.Error("failed to migrate apartment", "number", apt.Number, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("migrated apartments", "count", len(apartments))
}
