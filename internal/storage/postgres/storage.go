package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	repositories
	pool   pgxPool
	logger *slog.Logger
}

// repositories hands out repository adapters bound to one querier.
type repositories struct {
	db querier
}

func (r repositories) Accounts() repository.AccountRepository { return &accountRepository{db: r.db} }
func (r repositories) Admins() repository.AdminRepository     { return &adminRepository{db: r.db} }
func (r repositories) Stalls() repository.StallRepository     { return &stallRepository{db: r.db} }
func (r repositories) Ledger() repository.LedgerRepository    { return &ledgerRepository{db: r.db} }
func (r repositories) Sequencer() repository.TokenSequencer   { return &tokenSequencer{db: r.db} }
func (r repositories) Orders() repository.OrderRepository     { return &orderRepository{db: r.db} }
func (r repositories) Outbox() repository.OutboxRepository    { return &outboxRepository{db: r.db} }

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := newStorage(pool, logger)
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

func newStorage(pool pgxPool, logger *slog.Logger) *Storage {
	return &Storage{repositories: repositories{db: pool}, pool: pool, logger: logger}
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS account_uid_seq`,
		`CREATE TABLE IF NOT EXISTS accounts (
            id BIGSERIAL PRIMARY KEY,
            uid TEXT UNIQUE NOT NULL,
            username TEXT NOT NULL,
            pin_hash TEXT NOT NULL,
            balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
            blocked BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS admins (
            username TEXT PRIMARY KEY,
            password_hash TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS stalls (
            stall_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            pin_hash TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS menu_items (
            id BIGSERIAL PRIMARY KEY,
            stall_id TEXT NOT NULL REFERENCES stalls(stall_id) ON DELETE CASCADE,
            position INT NOT NULL,
            name TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL CHECK (price > 0),
            UNIQUE (stall_id, position)
        )`,
		`CREATE TABLE IF NOT EXISTS stall_sequences (
            stall_id TEXT PRIMARY KEY REFERENCES stalls(stall_id),
            last_token BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            token_no BIGINT NOT NULL,
            username TEXT NOT NULL,
            stall_id TEXT NOT NULL REFERENCES stalls(stall_id),
            stall_name TEXT NOT NULL,
            items JSONB NOT NULL,
            total NUMERIC(12,2) NOT NULL CHECK (total > 0),
            status TEXT NOT NULL,
            request_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            served_at TIMESTAMPTZ,
            UNIQUE (stall_id, token_no)
        )`,
		`CREATE TABLE IF NOT EXISTS order_events (
            id BIGSERIAL PRIMARY KEY,
            kind TEXT NOT NULL,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            locked_until TIMESTAMPTZ,
            published_at TIMESTAMPTZ
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_username ON accounts (lower(username))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_request ON orders (username, request_id) WHERE request_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (username, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_pending ON order_events (id) WHERE published_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction runs fn with repositories bound to a single transaction.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(tx repository.Factory) error) error {
	return s.withinTx(ctx, func(tx pgx.Tx) error {
		return fn(repositories{db: tx})
	})
}

func (s *Storage) withinTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err)
	}
	defer func() {
		if err != nil {
			// The caller's context may be cancelled already; rollback must still reach the server.
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && s.logger != nil {
				s.logger.Warn("rollback failed", slog.Any("error", rbErr))
			}
			return
		}
		err = mapError(tx.Commit(ctx))
	}()

	err = fn(tx)
	return err
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// mapError translates PostgreSQL error codes into domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", domainErrors.ErrAlreadyExists, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", domainErrors.ErrNotFound, pgErr.ConstraintName)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", domainErrors.ErrInvalidAmount, pgErr.ConstraintName)
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %s", domainErrors.ErrRetryable, pgErr.Message)
	}
	return err
}
