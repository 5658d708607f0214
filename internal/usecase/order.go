package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/adapter/attempts"
	"github.com/polkiloo/foodcourt/internal/config"
	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	"github.com/polkiloo/foodcourt/internal/metrics"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

// OrderUseCase encapsulates order placement and fulfilment.
type OrderUseCase struct {
	store       repository.Store
	verifier    credentialVerifier
	metrics     *metrics.Metrics
	logger      *slog.Logger
	maxAttempts int
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	store repository.Store,
	hasher pkgAuth.PasswordHasher,
	limiter attempts.Limiter,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *slog.Logger,
) *OrderUseCase {
	maxAttempts := cfg.PlaceOrderAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &OrderUseCase{
		store:       store,
		verifier:    credentialVerifier{hasher: hasher, limiter: limiter},
		metrics:     m,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// ListStalls returns every stall with its menu.
func (u *OrderUseCase) ListStalls(ctx context.Context) ([]model.Stall, error) {
	return u.store.Stalls().List(ctx)
}

// Place runs the placement transaction: the customer is debited and a token issued,
// or nothing happens at all.
func (u *OrderUseCase) Place(ctx context.Context, req model.PlaceOrderRequest) (*model.PlacedOrder, error) {
	placed, err := u.place(ctx, req)
	if err != nil {
		u.metrics.PlacementFailed(failureReason(err))
		return nil, err
	}
	if !placed.Replayed {
		u.metrics.OrderPlaced(req.StallID)
	}
	return placed, nil
}

func (u *OrderUseCase) place(ctx context.Context, req model.PlaceOrderRequest) (*model.PlacedOrder, error) {
	if req.Username == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}
	acc, err := u.store.Accounts().GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	// blocked wins over every other outcome
	if acc.Blocked {
		return nil, domainErrors.ErrForbidden
	}
	if err := ValidatePIN(req.PIN); err != nil {
		return nil, err
	}
	requestID, err := normalizeRequestID(req.RequestID)
	if err != nil {
		return nil, err
	}
	if err := ValidateAmount(req.ClaimedTotal, false); err != nil {
		return nil, err
	}
	if err := u.verifier.verify(ctx, attempts.Key("user", acc.Username), acc.PINHash, req.PIN); err != nil {
		return nil, err
	}

	stall, err := u.store.Stalls().GetByID(ctx, strings.TrimSpace(req.StallID))
	if err != nil {
		return nil, err
	}
	items, total, err := priceLines(stall, req.Lines)
	if err != nil {
		return nil, err
	}
	if !total.Equal(req.ClaimedTotal) {
		return nil, domainErrors.ErrTotalMismatch
	}

	for attempt := 1; ; attempt++ {
		placed, err := u.commit(ctx, acc.Username, stall, items, total, requestID)
		switch {
		case err == nil:
			return placed, nil
		case requestID != "" && errors.Is(err, domainErrors.ErrAlreadyExists):
			// A concurrent request with the same key committed first.
			return u.replay(ctx, acc.Username, requestID, stall.StallID, items)
		case errors.Is(err, domainErrors.ErrRetryable) && attempt < u.maxAttempts && ctx.Err() == nil:
			u.logger.WarnContext(ctx, "retrying order placement",
				slog.String("username", acc.Username),
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
		default:
			return nil, err
		}
	}
}

func (u *OrderUseCase) commit(ctx context.Context, username string, stall *model.Stall, items []model.OrderItem, total decimal.Decimal, requestID string) (*model.PlacedOrder, error) {
	var placed *model.PlacedOrder
	err := u.store.WithinTransaction(ctx, func(tx repository.Factory) error {
		entry, err := tx.Ledger().Lock(ctx, username)
		if err != nil {
			return err
		}
		if entry.Blocked {
			return domainErrors.ErrForbidden
		}

		if requestID != "" {
			existing, err := tx.Orders().GetByRequestID(ctx, entry.Username, requestID)
			if err == nil {
				if !sameOrder(existing, stall.StallID, items) {
					return domainErrors.ErrIdempotencyConflict
				}
				placed = &model.PlacedOrder{OrderID: existing.ID, TokenNo: existing.TokenNo, NewBalance: entry.Balance, Replayed: true}
				return nil
			}
			if !errors.Is(err, domainErrors.ErrNotFound) {
				return err
			}
		}

		balance, err := tx.Ledger().Debit(ctx, entry.Username, total)
		if err != nil {
			return err
		}
		tokenNo, err := tx.Sequencer().Next(ctx, stall.StallID)
		if err != nil {
			return err
		}

		order := &model.Order{
			TokenNo:   tokenNo,
			Username:  entry.Username,
			StallID:   stall.StallID,
			StallName: stall.Name,
			Items:     items,
			Total:     total,
			Status:    model.OrderStatusPending,
			RequestID: requestID,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, model.NewOrderEvent(model.EventOrderPlaced, order, order.CreatedAt)); err != nil {
			return err
		}

		placed = &model.PlacedOrder{OrderID: order.ID, TokenNo: tokenNo, NewBalance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func (u *OrderUseCase) replay(ctx context.Context, username, requestID, stallID string, items []model.OrderItem) (*model.PlacedOrder, error) {
	existing, err := u.store.Orders().GetByRequestID(ctx, username, requestID)
	if err != nil {
		return nil, err
	}
	if !sameOrder(existing, stallID, items) {
		return nil, domainErrors.ErrIdempotencyConflict
	}
	balance, err := u.store.Ledger().Balance(ctx, username)
	if err != nil {
		return nil, err
	}
	return &model.PlacedOrder{OrderID: existing.ID, TokenNo: existing.TokenNo, NewBalance: balance, Replayed: true}, nil
}

// sameOrder reports whether existing was placed for the same stall and lines. Prices are
// left out so a retry still matches after a menu price change.
func sameOrder(existing *model.Order, stallID string, items []model.OrderItem) bool {
	if existing.StallID != stallID || len(existing.Items) != len(items) {
		return false
	}
	for i, item := range items {
		if existing.Items[i].Name != item.Name || existing.Items[i].Quantity != item.Quantity {
			return false
		}
	}
	return true
}

// priceLines snapshots the requested menu lines at current prices and sums them.
func priceLines(stall *model.Stall, lines []model.OrderLine) ([]model.OrderItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, domainErrors.Validationf("order has no items")
	}
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > maxLineQuantity {
			return nil, decimal.Zero, domainErrors.Validationf("quantity must be between 1 and %d", maxLineQuantity)
		}
		menuItem, ok := stall.Item(line.ItemID)
		if !ok {
			return nil, decimal.Zero, domainErrors.Validationf("item %d is not on the menu of %s", line.ItemID, stall.StallID)
		}
		items = append(items, model.OrderItem{Name: menuItem.Name, Price: menuItem.Price, Quantity: line.Quantity})
	}
	total := lo.Reduce(items, func(sum decimal.Decimal, item model.OrderItem, _ int) decimal.Decimal {
		return sum.Add(item.Subtotal())
	}, decimal.Zero)
	return items, total, nil
}

// ListForCustomer returns the customer's orders, newest first.
func (u *OrderUseCase) ListForCustomer(ctx context.Context, username string) ([]model.Order, error) {
	return u.store.Orders().ListByUser(ctx, username)
}

// ListForStall returns the stall's orders, highest token first.
func (u *OrderUseCase) ListForStall(ctx context.Context, stallID string) ([]model.Order, error) {
	return u.store.Orders().ListByStall(ctx, stallID)
}

// UpdateStatus serves a pending token of stallID. Serving an already served token of the
// same stall returns it unchanged.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, stallID string, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if status != model.OrderStatusServed {
		return nil, domainErrors.Validationf("status can only be set to %s", model.OrderStatusServed)
	}
	if orderID <= 0 {
		return nil, domainErrors.Validationf("token_id is required")
	}

	var served *model.Order
	err := u.store.WithinTransaction(ctx, func(tx repository.Factory) error {
		order, changed, err := tx.Orders().MarkServed(ctx, orderID, stallID)
		if err != nil {
			return err
		}
		served = order
		if !changed {
			return nil
		}
		at := order.CreatedAt
		if order.ServedAt != nil {
			at = *order.ServedAt
		}
		return tx.Outbox().Append(ctx, model.NewOrderEvent(model.EventOrderServed, order, at))
	})
	if err != nil {
		return nil, err
	}
	return served, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		return "insufficient_funds"
	case errors.Is(err, domainErrors.ErrTotalMismatch):
		return "total_mismatch"
	case errors.Is(err, domainErrors.ErrIdempotencyConflict):
		return "idempotency_conflict"
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		return "validation"
	case errors.Is(err, domainErrors.ErrValidation):
		return "validation"
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, domainErrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domainErrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, domainErrors.ErrTooManyAttempts):
		return "too_many_attempts"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
