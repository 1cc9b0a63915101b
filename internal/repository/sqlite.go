package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

// SQLiteStore persists transactions in a local SQLite database. Used for
// single-user and development setups where Postgres is overkill.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SQLiteStore{db: db, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("sqlite store ready", "dsn", dsn)
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	type TEXT NOT NULL,
	amount REAL NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	date TEXT NOT NULL,
	account TEXT NOT NULL,
	linha_digitavel TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date);`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, tx *entity.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, category, description, date, account, linha_digitavel, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`, tx.ID, tx.UserID, tx.Type, tx.Amount, tx.Category, tx.Description, tx.Date, tx.Account,
		tx.LinhaDigitavel, tx.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		s.logger.Error("insert transaction failed", "id", tx.ID, "error", err)
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string, from, to *time.Time) ([]entity.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, category, description, date, account, linha_digitavel, created_at
		FROM transactions
		WHERE user_id = ?
		  AND (? IS NULL OR date >= ?)
		  AND (? IS NULL OR date <= ?)
		ORDER BY date DESC, created_at DESC
	`, userID, isoDate(from), isoDate(from), isoDate(to), isoDate(to))
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var linha sql.NullString
		var createdAt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category,
			&t.Description, &t.Date, &t.Account, &linha, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if linha.Valid {
			v := linha.String
			t.LinhaDigitavel = &v
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			t.CreatedAt = ts
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

var _ TransactionStore = (*SQLiteStore)(nil)
