package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type stallRepository struct {
	db querier
}

func (r *stallRepository) List(ctx context.Context) ([]model.Stall, error) {
	const stallsQuery = `SELECT stall_id, name, pin_hash FROM stalls ORDER BY stall_id`
	rows, err := r.db.Query(ctx, stallsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stalls []model.Stall
	index := make(map[string]int)
	for rows.Next() {
		var s model.Stall
		if err := rows.Scan(&s.StallID, &s.Name, &s.PINHash); err != nil {
			return nil, err
		}
		index[s.StallID] = len(stalls)
		stalls = append(stalls, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(stalls) == 0 {
		return stalls, nil
	}

	const itemsQuery = `SELECT stall_id, id, name, price FROM menu_items ORDER BY stall_id, position`
	itemRows, err := r.db.Query(ctx, itemsQuery)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			stallID string
			item    model.MenuItem
		)
		if err := itemRows.Scan(&stallID, &item.ID, &item.Name, &item.Price); err != nil {
			return nil, err
		}
		if i, ok := index[stallID]; ok {
			stalls[i].Menu = append(stalls[i].Menu, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return stalls, nil
}

func (r *stallRepository) GetByID(ctx context.Context, stallID string) (*model.Stall, error) {
	const stallQuery = `SELECT stall_id, name, pin_hash FROM stalls WHERE stall_id=$1`
	var s model.Stall
	if err := r.db.QueryRow(ctx, stallQuery, stallID).Scan(&s.StallID, &s.Name, &s.PINHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `SELECT id, name, price FROM menu_items WHERE stall_id=$1 ORDER BY position`
	rows, err := r.db.Query(ctx, itemsQuery, stallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, err
		}
		s.Menu = append(s.Menu, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert keeps menu item ids stable by position so re-seeding does not invalidate clients.
func (r *stallRepository) Upsert(ctx context.Context, stall model.Stall) error {
	const upsertStall = `INSERT INTO stalls (stall_id, name, pin_hash) VALUES ($1, $2, $3)
                         ON CONFLICT (stall_id) DO UPDATE SET name = EXCLUDED.name, pin_hash = EXCLUDED.pin_hash`
	if _, err := r.db.Exec(ctx, upsertStall, stall.StallID, stall.Name, stall.PINHash); err != nil {
		return mapError(err)
	}

	const upsertItem = `INSERT INTO menu_items (stall_id, position, name, price) VALUES ($1, $2, $3, $4)
                        ON CONFLICT (stall_id, position) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price`
	for i, item := range stall.Menu {
		if _, err := r.db.Exec(ctx, upsertItem, stall.StallID, i, item.Name, item.Price); err != nil {
			return mapError(err)
		}
	}

	const trimItems = `DELETE FROM menu_items WHERE stall_id=$1 AND position >= $2`
	if _, err := r.db.Exec(ctx, trimItems, stall.StallID, len(stall.Menu)); err != nil {
		return err
	}
	return nil
}
