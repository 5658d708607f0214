package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

// AdminUseCase serves administration views and account actions.
type AdminUseCase struct {
	store  repository.Store
	hasher pkgAuth.PasswordHasher
	logger *slog.Logger
}

// NewAdminUseCase constructs AdminUseCase.
func NewAdminUseCase(store repository.Store, hasher pkgAuth.PasswordHasher, logger *slog.Logger) *AdminUseCase {
	return &AdminUseCase{store: store, hasher: hasher, logger: logger}
}

// Users lists accounts ordered by uid.
func (u *AdminUseCase) Users(ctx context.Context) ([]model.Account, error) {
	return u.store.Accounts().List(ctx)
}

// Orders lists every order, newest first.
func (u *AdminUseCase) Orders(ctx context.Context) ([]model.Order, error) {
	return u.store.Orders().ListAll(ctx)
}

// Stalls lists stalls with menus.
func (u *AdminUseCase) Stalls(ctx context.Context) ([]model.Stall, error) {
	return u.store.Stalls().List(ctx)
}

// Dashboard returns aggregate figures.
func (u *AdminUseCase) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	return u.store.Orders().Dashboard(ctx)
}

// Execute applies cmd on behalf of admin.
func (u *AdminUseCase) Execute(ctx context.Context, admin string, cmd model.AdminCommand) (*model.AdminResult, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return nil, domainErrors.Validationf("username is required")
	}

	result, err := u.execute(ctx, username, cmd)
	if err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "admin action applied",
		slog.String("admin", admin),
		slog.String("action", string(cmd.Action)),
		slog.String("username", username),
	)
	return result, nil
}

func (u *AdminUseCase) execute(ctx context.Context, username string, cmd model.AdminCommand) (*model.AdminResult, error) {
	ledger := u.store.Ledger()
	switch cmd.Action {
	case model.ActionTopUp:
		if err := ValidateAmount(cmd.Amount, false); err != nil {
			return nil, err
		}
		return balanceResult(ledger.Credit(ctx, username, cmd.Amount))
	case model.ActionSetBalance:
		if err := ValidateAmount(cmd.Amount, true); err != nil {
			return nil, err
		}
		return balanceResult(ledger.SetBalance(ctx, username, cmd.Amount))
	case model.ActionZero:
		return balanceResult(ledger.SetBalance(ctx, username, decimal.Zero))
	case model.ActionBlock:
		if err := u.store.Accounts().SetBlocked(ctx, username, true); err != nil {
			return nil, err
		}
		return &model.AdminResult{}, nil
	case model.ActionUnblock:
		if err := ValidatePIN(cmd.NewPIN); err != nil {
			return nil, err
		}
		hash, err := u.hasher.Hash(ctx, cmd.NewPIN)
		if err != nil {
			return nil, err
		}
		if err := u.store.Accounts().Unblock(ctx, username, hash); err != nil {
			return nil, err
		}
		return &model.AdminResult{}, nil
	default:
		return nil, domainErrors.Validationf("unknown action %q", cmd.Action)
	}
}

func balanceResult(balance decimal.Decimal, err error) (*model.AdminResult, error) {
	if err != nil {
		return nil, err
	}
	return &model.AdminResult{NewBalance: &balance}, nil
}
