package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type orderRepository struct {
	db querier
}

const orderColumns = `id, token_no, username, stall_id, stall_name, items, total, status, COALESCE(request_id, ''), created_at, served_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	const query = `INSERT INTO orders (token_no, username, stall_id, stall_name, items, total, status, request_id)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
                   RETURNING id, created_at`
	err = r.db.QueryRow(ctx, query,
		order.TokenNo, order.Username, order.StallID, order.StallName,
		items, order.Total, order.Status, order.RequestID,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *orderRepository) GetByRequestID(ctx context.Context, username, requestID string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE username=$1 AND request_id=$2`
	order, err := scanOrder(r.db.QueryRow(ctx, query, username, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, username string) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE lower(username)=lower($1) ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, username)
}

func (r *orderRepository) ListByStall(ctx context.Context, stallID string) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE stall_id=$1 ORDER BY token_no DESC`
	return r.list(ctx, query, stallID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) MarkServed(ctx context.Context, orderID int64, stallID string) (*model.Order, bool, error) {
	const update = `UPDATE orders SET status=$3, served_at=NOW()
                    WHERE id=$1 AND stall_id=$2 AND status=$4
                    RETURNING ` + orderColumns
	order, err := scanOrder(r.db.QueryRow(ctx, update, orderID, stallID, model.OrderStatusServed, model.OrderStatusPending))
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, mapError(err)
	}

	const lookup = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 AND stall_id=$2`
	order, err = scanOrder(r.db.QueryRow(ctx, lookup, orderID, stallID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, domainErrors.ErrNotFoundOrForbidden
		}
		return nil, false, err
	}
	if order.Status != model.OrderStatusServed {
		return nil, false, domainErrors.ErrNotFoundOrForbidden
	}
	return order, false, nil
}

func (r *orderRepository) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	dashboard := &model.Dashboard{Stalls: make(map[string]model.StallStats)}

	const accountsQuery = `SELECT COUNT(*), COALESCE(SUM(balance), 0) FROM accounts`
	var users int64
	if err := r.db.QueryRow(ctx, accountsQuery).Scan(&users, &dashboard.TotalBalance); err != nil {
		return nil, err
	}
	dashboard.TotalUsers = int(users)

	const stallsQuery = `SELECT stall_id, MAX(stall_name), COUNT(*), COALESCE(SUM(total), 0),
                                COUNT(*) FILTER (WHERE status=$1)
                         FROM orders GROUP BY stall_id ORDER BY stall_id`
	rows, err := r.db.Query(ctx, stallsQuery, model.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dashboard.TotalRevenue = decimal.Zero
	for rows.Next() {
		var (
			stallID         string
			stats           model.StallStats
			orders, pending int64
		)
		if err := rows.Scan(&stallID, &stats.Name, &orders, &stats.Revenue, &pending); err != nil {
			return nil, err
		}
		stats.Orders = int(orders)
		stats.Pending = int(pending)
		dashboard.Stalls[stallID] = stats
		dashboard.TotalRevenue = dashboard.TotalRevenue.Add(stats.Revenue)
		dashboard.TotalOrders += stats.Orders
		dashboard.Pending += stats.Pending
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	dashboard.Served = dashboard.TotalOrders - dashboard.Pending
	return dashboard, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	if err := row.Scan(&o.ID, &o.TokenNo, &o.Username, &o.StallID, &o.StallName, &items, &o.Total, &o.Status, &o.RequestID, &o.CreatedAt, &o.ServedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %d: %w", o.ID, err)
	}
	return &o, nil
}
