package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

type orderRepository struct {
	repositories
}

// visible returns orders as seen by the repository's transaction.
func (r *orderRepository) visible(filter func(o *model.Order) bool) []model.Order {
	r.s.mu.RLock()
	var result []model.Order
	for id, o := range r.s.orders {
		if r.tx != nil {
			if served, ok := r.tx.served[id]; ok {
				o = served
			}
		}
		if filter(o) {
			result = append(result, *cloneOrder(o))
		}
	}
	r.s.mu.RUnlock()

	if r.tx != nil {
		for _, o := range r.tx.orders {
			if filter(o) {
				result = append(result, *cloneOrder(o))
			}
		}
	}
	return result
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.s.run(ctx, r.tx, func(tx *txn) error {
		view := &orderRepository{repositories{s: r.s, tx: tx}}
		clash := view.visible(func(o *model.Order) bool {
			if o.StallID == order.StallID && o.TokenNo == order.TokenNo {
				return true
			}
			return order.RequestID != "" && o.RequestID == order.RequestID && normalize(o.Username) == normalize(order.Username)
		})
		if len(clash) > 0 {
			return domainErrors.ErrAlreadyExists
		}

		order.ID = r.s.orderSeq.Add(1)
		order.CreatedAt = r.s.now()
		tx.orders = append(tx.orders, cloneOrder(order))
		return nil
	})
}

func (r *orderRepository) GetByRequestID(ctx context.Context, username, requestID string) (*model.Order, error) {
	found := r.visible(func(o *model.Order) bool {
		return o.RequestID == requestID && normalize(o.Username) == normalize(username)
	})
	if len(found) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return &found[0], nil
}

func newestFirst(a, b model.Order) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (r *orderRepository) ListByUser(ctx context.Context, username string) ([]model.Order, error) {
	result := r.visible(func(o *model.Order) bool { return normalize(o.Username) == normalize(username) })
	slices.SortFunc(result, newestFirst)
	return result, nil
}

func (r *orderRepository) ListByStall(ctx context.Context, stallID string) ([]model.Order, error) {
	result := r.visible(func(o *model.Order) bool { return o.StallID == stallID })
	slices.SortFunc(result, func(a, b model.Order) int { return cmp.Compare(b.TokenNo, a.TokenNo) })
	return result, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	result := r.visible(func(*model.Order) bool { return true })
	slices.SortFunc(result, newestFirst)
	return result, nil
}

func (r *orderRepository) MarkServed(ctx context.Context, orderID int64, stallID string) (*model.Order, bool, error) {
	var (
		result  *model.Order
		changed bool
	)
	err := r.s.run(ctx, r.tx, func(tx *txn) error {
		if err := tx.lock(ctx, "order:"+strconv.FormatInt(orderID, 10)); err != nil {
			return err
		}
		view := &orderRepository{repositories{s: r.s, tx: tx}}
		found := view.visible(func(o *model.Order) bool { return o.ID == orderID && o.StallID == stallID })
		if len(found) == 0 {
			return domainErrors.ErrNotFoundOrForbidden
		}
		order := &found[0]
		switch order.Status {
		case model.OrderStatusServed:
			result = order
			return nil
		case model.OrderStatusPending:
			servedAt := r.s.now()
			order.Status = model.OrderStatusServed
			order.ServedAt = &servedAt
			tx.served[order.ID] = cloneOrder(order)
			result, changed = order, true
			return nil
		default:
			return domainErrors.ErrNotFoundOrForbidden
		}
	})
	if err != nil {
		return nil, false, err
	}
	return result, changed, nil
}

func (r *orderRepository) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	dashboard := &model.Dashboard{
		TotalBalance: decimal.Zero,
		TotalRevenue: decimal.Zero,
		Stalls:       make(map[string]model.StallStats),
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	dashboard.TotalUsers = len(r.s.accounts)
	for _, a := range r.s.accounts {
		dashboard.TotalBalance = dashboard.TotalBalance.Add(a.Balance)
	}

	for _, o := range r.s.orders {
		stats, ok := dashboard.Stalls[o.StallID]
		if !ok {
			stats = model.StallStats{Name: o.StallName, Revenue: decimal.Zero}
		}
		stats.Revenue = stats.Revenue.Add(o.Total)
		stats.Orders++
		dashboard.TotalOrders++
		dashboard.TotalRevenue = dashboard.TotalRevenue.Add(o.Total)
		if o.Status == model.OrderStatusPending {
			stats.Pending++
			dashboard.Pending++
		} else {
			dashboard.Served++
		}
		dashboard.Stalls[o.StallID] = stats
	}
	return dashboard, nil
}

type stallRepository struct {
	repositories
}

func (r *stallRepository) List(ctx context.Context) ([]model.Stall, error) {
	r.s.mu.RLock()
	result := make([]model.Stall, 0, len(r.s.stalls))
	for _, st := range r.s.stalls {
		result = append(result, *cloneStall(st))
	}
	r.s.mu.RUnlock()

	slices.SortFunc(result, func(a, b model.Stall) int { return cmp.Compare(a.StallID, b.StallID) })
	return result, nil
}

func (r *stallRepository) GetByID(ctx context.Context, stallID string) (*model.Stall, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.stalls[stallID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneStall(st), nil
}

func (r *stallRepository) Upsert(ctx context.Context, stall model.Stall) error {
	return r.s.run(ctx, r.tx, func(tx *txn) error {
		stall.Menu = append([]model.MenuItem(nil), stall.Menu...)
		tx.stalls = append(tx.stalls, stall)
		return nil
	})
}

type outboxRepository struct {
	repositories
}

func (r *outboxRepository) Append(ctx context.Context, event model.OrderEvent) error {
	return r.s.run(ctx, r.tx, func(tx *txn) error {
		tx.events = append(tx.events, event)
		return nil
	})
}

func (r *outboxRepository) Claim(ctx context.Context, limit int, lease time.Duration) ([]model.OrderEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	var claimed []model.OrderEvent
	for _, entry := range r.s.events {
		if len(claimed) >= limit {
			break
		}
		if entry.published || now.Before(entry.lockedUntil) {
			continue
		}
		entry.lockedUntil = now.Add(lease)
		claimed = append(claimed, entry.event)
	}
	return claimed, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, entry := range r.s.events {
		if entry.event.ID == id {
			entry.published = true
			entry.lockedUntil = time.Time{}
			return nil
		}
	}
	return domainErrors.ErrNotFound
}
