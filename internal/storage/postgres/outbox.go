package postgres

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type outboxRepository struct {
	db querier
}

func (r *outboxRepository) Append(ctx context.Context, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	const query = `INSERT INTO order_events (kind, payload) VALUES ($1, $2)`
	if _, err := r.db.Exec(ctx, query, event.Kind, payload); err != nil {
		return mapError(err)
	}
	return nil
}

// Claim leases a batch with FOR UPDATE SKIP LOCKED so concurrent relays never share events.
// A lease that expires without MarkPublished makes the event claimable again.
func (r *outboxRepository) Claim(ctx context.Context, limit int, lease time.Duration) ([]model.OrderEvent, error) {
	const query = `UPDATE order_events SET locked_until = NOW() + make_interval(secs => $2)
                   WHERE id IN (
                       SELECT id FROM order_events
                       WHERE published_at IS NULL AND (locked_until IS NULL OR locked_until < NOW())
                       ORDER BY id
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED
                   )
                   RETURNING id, payload`
	rows, err := r.db.Query(ctx, query, limit, lease.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.OrderEvent
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		var event model.OrderEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", id, err)
		}
		event.ID = id
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(events, func(a, b model.OrderEvent) int { return cmp.Compare(a.ID, b.ID) })
	return events, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id int64) error {
	const query = `UPDATE order_events SET published_at = NOW(), locked_until = NULL WHERE id=$1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
