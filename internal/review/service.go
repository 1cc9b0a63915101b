// Package review is the human-in-the-loop boundary: extracted candidates come
// back from the user as an edited draft and, once complete, become an expense
// transaction in the external store.
package review

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contasapp/contas-ingest/constants"
	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
	"github.com/contasapp/contas-ingest/internal/extract"
	"github.com/contasapp/contas-ingest/internal/repository"
)

// FallbackDescription is used when the draft carries no issuer name.
const FallbackDescription = "Recibo/Boleto importado"

// Draft carries the user-corrected fields for one reviewed document.
type Draft struct {
	UserID         string `json:"user_id"`
	Amount         string `json:"amount"`   // Brazilian format, e.g. "R$ 123,45"
	DueDate        string `json:"due_date"` // DD/MM/YYYY
	Category       string `json:"category"`
	IssuerName     string `json:"issuer_name"`
	Account        string `json:"account"`
	LinhaDigitavel string `json:"linha_digitavel"`
}

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

// Commit validates the draft and writes an expense transaction. The
// completeness gate runs locally: an incomplete draft is rejected with
// ErrCommitValidation before any store call is made.
func (s *Service) Commit(ctx context.Context, d Draft) (entity.Transaction, error) {
	if strings.TrimSpace(d.UserID) == "" {
		return entity.Transaction{}, invalid("user_id is required")
	}
	if strings.TrimSpace(d.Amount) == "" || strings.TrimSpace(d.DueDate) == "" || strings.TrimSpace(d.Category) == "" {
		return entity.Transaction{}, invalid("amount, due date and category are required")
	}

	amount, err := extract.ParseAmount(d.Amount)
	if err != nil || amount == 0 {
		return entity.Transaction{}, invalid("amount is not a valid value")
	}

	isoDate, err := extract.ToISODate(d.DueDate)
	if err != nil {
		return entity.Transaction{}, invalid("due date must be DD/MM/YYYY")
	}

	category, ok := constants.Canonicalize(d.Category)
	if !ok {
		return entity.Transaction{}, invalid("unknown category: " + d.Category)
	}

	account := d.Account
	if account == "" {
		account = constants.DefaultAccount()
	} else if !constants.IsAccount(account) {
		return entity.Transaction{}, invalid("unknown account: " + account)
	}

	description := strings.TrimSpace(d.IssuerName)
	if description == "" {
		description = FallbackDescription
	}

	tx := entity.Transaction{
		ID:          uuid.NewString(),
		UserID:      d.UserID,
		Type:        "expense",
		Amount:      amount,
		Category:    string(category),
		Description: description,
		Date:        isoDate,
		Account:     account,
		CreatedAt:   time.Now().UTC(),
	}
	if linha := strings.TrimSpace(d.LinhaDigitavel); linha != "" {
		tx.LinhaDigitavel = &linha
	}

	if err := s.store.Save(ctx, &tx); err != nil {
		s.logger.Error("commit transaction failed", "user_id", d.UserID, "error", err)
		return entity.Transaction{}, common.WrapError(err, "save transaction")
	}

	s.logger.Info("transaction committed",
		"id", tx.ID, "user_id", tx.UserID,
		"amount", tx.Amount, "category", tx.Category, "date", tx.Date,
	)
	return tx, nil
}

func invalid(msg string) error {
	return common.NewAppError("COMMIT_INVALID", msg, common.ErrCommitValidation)
}
