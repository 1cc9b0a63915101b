// Package repository holds the transaction-storage collaborator the review
// surface commits into. The pipeline itself owns no persisted state.
package repository

import (
	"context"
	"time"

	"github.com/contasapp/contas-ingest/internal/entity"
)

// TransactionStore is the behavior the review and export services depend on.
type TransactionStore interface {
	Save(ctx context.Context, tx *entity.Transaction) error
	// List returns a user's transactions, newest date first. from/to bound the
	// transaction date (inclusive) when non-nil.
	List(ctx context.Context, userID string, from, to *time.Time) ([]entity.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
}

func isoDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}
