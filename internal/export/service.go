// Package export produces XLSX workbooks of committed transactions.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contasapp/contas-ingest/internal/repository"
)

const sheet = "Transactions"

var headers = []string{
	"Date",
	"Category",
	"Description",
	"Amount",
	"Account",
	"Linha Digitável",
}

// Service is a small façade over the transaction store that renders exports.
type Service struct {
	store  repository.TransactionStore
	logger *slog.Logger
}

func NewService(store repository.TransactionStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// TransactionsXLSX returns an XLSX workbook (as bytes) for the given user and
// date window. A nil bound leaves that side of the window open.
func (s *Service) TransactionsXLSX(ctx context.Context, userID string, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	txs, err := s.store.List(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, tx := range txs {
		linha := ""
		if tx.LinhaDigitavel != nil {
			linha = *tx.LinhaDigitavel
		}
		values := []any{tx.Date, tx.Category, tx.Description, tx.Amount, tx.Account, linha}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("transactions exported",
		"user_id", userID, "rows", len(txs), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
