package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type accountRepository struct {
	db querier
}

type adminRepository struct {
	db querier
}

const accountColumns = `id, uid, username, pin_hash, balance, blocked, created_at`

func (r *accountRepository) Create(ctx context.Context, username, pinHash string) (*model.Account, error) {
	const query = `WITH seq AS (SELECT nextval('account_uid_seq') AS n)
                   INSERT INTO accounts (uid, username, pin_hash)
                   SELECT 'UID_' || CASE WHEN n < 10000 THEN lpad(n::text, 4, '0') ELSE n::text END, $1, $2 FROM seq
                   RETURNING ` + accountColumns
	account, err := scanAccount(r.db.QueryRow(ctx, query, username, pinHash))
	if err != nil {
		return nil, mapError(err)
	}
	return account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE lower(username)=lower($1)`
	account, err := scanAccount(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *accountRepository) SetBlocked(ctx context.Context, username string, blocked bool) error {
	const query = `UPDATE accounts SET blocked=$2 WHERE lower(username)=lower($1)`
	tag, err := r.db.Exec(ctx, query, username, blocked)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Unblock(ctx context.Context, username, pinHash string) error {
	const query = `UPDATE accounts SET blocked=FALSE, pin_hash=$2 WHERE lower(username)=lower($1)`
	tag, err := r.db.Exec(ctx, query, username, pinHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(&a.ID, &a.UID, &a.Username, &a.PINHash, &a.Balance, &a.Blocked, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	const query = `SELECT username, password_hash FROM admins WHERE lower(username)=lower($1)`
	var a model.Admin
	if err := r.db.QueryRow(ctx, query, username).Scan(&a.Username, &a.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	const query = `INSERT INTO admins (username, password_hash) VALUES ($1, $2)
                   ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash`
	_, err := r.db.Exec(ctx, query, username, passwordHash)
	return err
}
