package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	store, err := OpenSQLite(context.Background(), dsn, nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTx(id, date string) *entity.Transaction {
	linha := "34191.79001 01043.510047 91020.150008 1"
	return &entity.Transaction{
		ID:             id,
		UserID:         "user-1",
		Type:           "expense",
		Amount:         123.45,
		Category:       "debt",
		Description:    "Recibo/Boleto importado",
		Date:           date,
		Account:        "checking",
		LinhaDigitavel: &linha,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestSQLiteSaveAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleTx("t1", "2024-12-31")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, sampleTx("t2", "2024-11-15")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.List(ctx, "user-1", nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// newest date first
	if got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("order = %s, %s; want t1, t2", got[0].ID, got[1].ID)
	}
	if got[0].Amount != 123.45 || got[0].Type != "expense" {
		t.Errorf("row mismatch: %+v", got[0])
	}
	if got[0].LinhaDigitavel == nil {
		t.Error("linha digitavel not round-tripped")
	}
}

func TestSQLiteListDateWindow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, d := range []string{"2024-10-01", "2024-11-15", "2024-12-31"} {
		if err := store.Save(ctx, sampleTx("t-"+d, d)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	from := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)
	got, err := store.List(ctx, "user-1", &from, &to)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Date != "2024-11-15" {
		t.Fatalf("window result = %+v, want only 2024-11-15", got)
	}
}

func TestSQLiteListScopesByUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tx := sampleTx("t1", "2024-12-31")
	tx.UserID = "someone-else"
	if err := store.Save(ctx, tx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.List(ctx, "user-1", nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows for user-1, got %d", len(got))
	}
}

func TestSQLiteDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleTx("t1", "2024-12-31")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "t1", "user-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "t1", "user-1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}
