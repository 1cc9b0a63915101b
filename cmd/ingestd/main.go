package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/export"
	"github.com/contasapp/contas-ingest/internal/ocr"
	"github.com/contasapp/contas-ingest/internal/pipeline"
	"github.com/contasapp/contas-ingest/internal/repository"
	"github.com/contasapp/contas-ingest/internal/review"
	"github.com/contasapp/contas-ingest/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("open transaction store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	recognizer := buildRecognizer(cfg.OCR, logger)

	srv := server.New(
		cfg.Server,
		pipeline.NewOrchestrator(recognizer, cfg.Pipeline.Concurrency, logger),
		review.NewService(store, logger),
		export.NewService(store, logger),
		store,
		logger,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (repository.TransactionStore, func(), error) {
	switch cfg.Driver {
	case "postgres":
		store, err := repository.OpenPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := repository.OpenSQLite(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

func buildRecognizer(cfg common.OCRConfig, logger *slog.Logger) ocr.Recognizer {
	if cfg.Mode == "remote" {
		client := &http.Client{Timeout: cfg.Timeout}
		return ocr.NewRemote(cfg.RemoteURL, cfg.Language, client, logger)
	}
	return ocr.NewTesseract(ocr.Config{
		Tesseract: cfg.Tesseract,
		Pdftoppm:  cfg.Pdftoppm,
		Language:  cfg.Language,
		DPI:       cfg.DPI,
		MaxPages:  cfg.MaxPages,
	}, logger)
}
