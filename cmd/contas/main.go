// Command contas is the operator CLI: run the extraction pipeline against
// local files, or export committed transactions to XLSX, without standing up
// the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/contasapp/contas-ingest/constants"
	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
	"github.com/contasapp/contas-ingest/internal/export"
	"github.com/contasapp/contas-ingest/internal/ocr"
	"github.com/contasapp/contas-ingest/internal/pipeline"
	"github.com/contasapp/contas-ingest/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "contas",
		Short:         "Receipt and bill ingestion tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExtractCmd(logger), newExportCmd(logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newExtractCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "OCR local documents and print extracted fields as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := common.LoadConfig()

			var docs []entity.Document
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				docs = append(docs, entity.Document{
					DisplayName: filepath.Base(path),
					MediaType:   constants.MapExtToMediaType(filepath.Ext(path)),
					Content:     content,
				})
			}

			orch := pipeline.NewOrchestrator(buildRecognizer(cfg.OCR, logger), cfg.Pipeline.Concurrency, logger)
			batch, err := orch.Ingest(cmd.Context(), docs)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(batch)
		},
	}
	return cmd
}

func newExportCmd(logger *slog.Logger) *cobra.Command {
	var (
		userID  string
		fromStr string
		toStr   string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's committed transactions to an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := common.LoadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}

			from, err := parseDate(fromStr)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			to, err := parseDate(toStr)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			ctx := cmd.Context()
			store, cleanup, err := openStore(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := export.NewService(store, logger).TransactionsXLSX(ctx, userID, from, to)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user whose transactions to export")
	cmd.Flags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&outPath, "out", "transactions.xlsx", "output file path")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("must be YYYY-MM-DD: %q", s)
	}
	return &t, nil
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
