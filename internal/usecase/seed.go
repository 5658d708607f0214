package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

func item(name string, price int64) model.MenuItemSeed {
	return model.MenuItemSeed{Name: name, Price: decimal.NewFromInt(price)}
}

// DefaultStalls is the catalogue applied by the seed command.
func DefaultStalls() []model.StallSeed {
	return []model.StallSeed{
		{StallID: "S101", Name: "Tasty Bites", PIN: "2134", Menu: []model.MenuItemSeed{
			item("Burger", 80), item("Sandwich", 60), item("French Fries", 40), item("Cold Coffee", 50),
		}},
		{StallID: "S102", Name: "Spice Junction", PIN: "1234", Menu: []model.MenuItemSeed{
			item("Biryani", 120), item("Paneer Roll", 90), item("Lassi", 40), item("Gulab Jamun", 30),
		}},
		{StallID: "S103", Name: "Sweet Treats", PIN: "4321", Menu: []model.MenuItemSeed{
			item("Ice Cream", 50), item("Brownie", 60), item("Waffles", 80), item("Milkshake", 70),
		}},
	}
}

// SeedUseCase installs stalls, menus and the operator account. Running it again replaces
// menus and credentials without touching orders.
type SeedUseCase struct {
	store  repository.Store
	hasher pkgAuth.PasswordHasher
	cfg    *config.Config
	logger *slog.Logger
}

// NewSeedUseCase constructs SeedUseCase.
func NewSeedUseCase(store repository.Store, hasher pkgAuth.PasswordHasher, cfg *config.Config, logger *slog.Logger) *SeedUseCase {
	return &SeedUseCase{store: store, hasher: hasher, cfg: cfg, logger: logger}
}

// Seed applies stalls and returns a line per applied record.
func (u *SeedUseCase) Seed(ctx context.Context, stalls []model.StallSeed) ([]string, error) {
	prepared := make([]model.Stall, 0, len(stalls))
	for _, seed := range stalls {
		if err := ValidatePIN(seed.PIN); err != nil {
			return nil, fmt.Errorf("stall %s: %w", seed.StallID, err)
		}
		hash, err := u.hasher.Hash(ctx, seed.PIN)
		if err != nil {
			return nil, err
		}
		stall := model.Stall{StallID: seed.StallID, Name: seed.Name, PINHash: hash}
		for _, item := range seed.Menu {
			stall.Menu = append(stall.Menu, model.MenuItem{Name: item.Name, Price: item.Price})
		}
		prepared = append(prepared, stall)
	}

	var adminHash string
	if u.cfg.AdminPassword != "" {
		hash, err := u.hasher.Hash(ctx, u.cfg.AdminPassword)
		if err != nil {
			return nil, err
		}
		adminHash = hash
	}

	var results []string
	err := u.store.WithinTransaction(ctx, func(tx repository.Factory) error {
		results = results[:0]
		for _, stall := range prepared {
			if err := tx.Stalls().Upsert(ctx, stall); err != nil {
				return fmt.Errorf("stall %s: %w", stall.StallID, err)
			}
			results = append(results, fmt.Sprintf("%s (%s) seeded with %d menu items", stall.Name, stall.StallID, len(stall.Menu)))
		}
		if adminHash != "" {
			if err := tx.Admins().Upsert(ctx, u.cfg.AdminUsername, adminHash); err != nil {
				return fmt.Errorf("admin: %w", err)
			}
			results = append(results, fmt.Sprintf("admin %s seeded", u.cfg.AdminUsername))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if adminHash == "" {
		u.logger.WarnContext(ctx, "ADMIN_PASSWORD is empty, admin account not seeded")
	}
	u.logger.InfoContext(ctx, "seed applied", slog.Int("stalls", len(prepared)))
	return results, nil
}
