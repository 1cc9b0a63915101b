package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

// memStore records saves so tests can assert the completeness gate never
// reaches storage.
type memStore struct {
	saved    []entity.Transaction
	failWith error
}

func (m *memStore) Save(_ context.Context, tx *entity.Transaction) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.saved = append(m.saved, *tx)
	return nil
}

func (m *memStore) List(context.Context, string, *time.Time, *time.Time) ([]entity.Transaction, error) {
	return m.saved, nil
}

func (m *memStore) Delete(context.Context, string, string) error { return nil }

func validDraft() Draft {
	return Draft{
		UserID:         "user-1",
		Amount:         "R$ 123,45",
		DueDate:        "31/12/2024",
		Category:       "debt",
		IssuerName:     "Companhia de Energia",
		Account:        "checking",
		LinhaDigitavel: "34191.79001 01043.510047 91020.150008 1",
	}
}

func TestCommit(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, nil)

	tx, err := svc.Commit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if tx.Type != "expense" {
		t.Errorf("type = %q, want expense", tx.Type)
	}
	if tx.Amount != 123.45 {
		t.Errorf("amount = %v, want 123.45", tx.Amount)
	}
	if tx.Date != "2024-12-31" {
		t.Errorf("date = %q, want 2024-12-31 (converted from 31/12/2024)", tx.Date)
	}
	if tx.Description != "Companhia de Energia" {
		t.Errorf("description = %q", tx.Description)
	}
	if tx.LinhaDigitavel == nil || *tx.LinhaDigitavel != "34191.79001 01043.510047 91020.150008 1" {
		t.Errorf("linha digitavel = %v", tx.LinhaDigitavel)
	}
	if tx.ID == "" {
		t.Error("transaction id not assigned")
	}
	if len(store.saved) != 1 {
		t.Fatalf("store saves = %d, want 1", len(store.saved))
	}
}

func TestCommitFallbackDescriptionAndAccount(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, nil)

	d := validDraft()
	d.IssuerName = ""
	d.Account = ""
	d.LinhaDigitavel = ""

	tx, err := svc.Commit(context.Background(), d)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if tx.Description != FallbackDescription {
		t.Errorf("description = %q, want fallback", tx.Description)
	}
	if tx.Account != "checking" {
		t.Errorf("account = %q, want default checking", tx.Account)
	}
	if tx.LinhaDigitavel != nil {
		t.Errorf("linha digitavel should be absent, got %v", *tx.LinhaDigitavel)
	}
}

func TestCommitRejectsIncompleteDrafts(t *testing.T) {
	mutations := map[string]func(*Draft){
		"missing amount":    func(d *Draft) { d.Amount = "" },
		"missing due date":  func(d *Draft) { d.DueDate = "" },
		"missing category":  func(d *Draft) { d.Category = "" },
		"missing user":      func(d *Draft) { d.UserID = " " },
		"zero amount":       func(d *Draft) { d.Amount = "0,00" },
		"amount no digits":  func(d *Draft) { d.Amount = "R$" },
		"bad date shape":    func(d *Draft) { d.DueDate = "2024-12-31" },
		"unknown category":  func(d *Draft) { d.Category = "does-not-exist" },
		"unknown account":   func(d *Draft) { d.Account = "offshore" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			store := &memStore{}
			svc := NewService(store, nil)

			d := validDraft()
			mutate(&d)

			_, err := svc.Commit(context.Background(), d)
			if !errors.Is(err, common.ErrCommitValidation) {
				t.Fatalf("error = %v, want ErrCommitValidation", err)
			}
			// the gate is local: storage must never be called
			if len(store.saved) != 0 {
				t.Fatalf("store was called for an invalid draft")
			}
		})
	}
}

func TestCommitCategorySynonym(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, nil)

	d := validDraft()
	d.Category = "boleto"

	tx, err := svc.Commit(context.Background(), d)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if tx.Category != "debt" {
		t.Errorf("category = %q, want canonical debt", tx.Category)
	}
}

func TestCommitPropagatesStoreError(t *testing.T) {
	store := &memStore{failWith: errors.New("connection reset")}
	svc := NewService(store, nil)

	_, err := svc.Commit(context.Background(), validDraft())
	if err == nil {
		t.Fatal("expected store error")
	}
	if errors.Is(err, common.ErrCommitValidation) {
		t.Fatal("store failure must not be reported as a validation error")
	}
}
