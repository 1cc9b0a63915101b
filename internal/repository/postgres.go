package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

// PostgresStore persists transactions in Postgres through a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates the pool and verifies connectivity.
func OpenPostgres(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "contas-ingest"

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	logger.Info("connected to postgres")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

// EnsureSchema creates the transactions table if needed. Keeping the
// migration in code makes the service self-contained to bootstrap.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	type TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	date TEXT NOT NULL,
	account TEXT NOT NULL,
	linha_digitavel TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date);`
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, tx *entity.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, category, description, date, account, linha_digitavel, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, tx.ID, tx.UserID, tx.Type, tx.Amount, tx.Category, tx.Description, tx.Date, tx.Account, tx.LinhaDigitavel, tx.CreatedAt)
	if err != nil {
		s.logger.Error("insert transaction failed", "id", tx.ID, "error", err)
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, from, to *time.Time) ([]entity.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, amount, category, description, date, account, linha_digitavel, created_at
		FROM transactions
		WHERE user_id = $1
		  AND ($2::text IS NULL OR date >= $2)
		  AND ($3::text IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC
	`, userID, isoDate(from), isoDate(to))
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var linha sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category,
			&t.Description, &t.Date, &t.Account, &linha, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if linha.Valid {
			v := linha.String
			t.LinhaDigitavel = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

var _ TransactionStore = (*PostgresStore)(nil)
