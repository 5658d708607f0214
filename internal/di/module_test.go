package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/app"
	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	"github.com/polkiloo/foodcourt/internal/server/http/handlers"
	"github.com/polkiloo/foodcourt/internal/storage/memory"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

func testConfig() *config.Config {
	return &config.Config{
		RunAddress:         "127.0.0.1:0",
		SessionSecret:      "secret",
		SessionTTL:         time.Hour,
		HashConcurrency:    1,
		PlaceOrderAttempts: 1,
		OutboxPollInterval: time.Millisecond,
		OutboxBatch:        1,
		RelayWorkers:       1,
		ShutdownTimeout:    time.Second,
		AdminUsername:      "Admin",
		AdminPassword:      "Hello",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var facade *app.FoodCourtFacade
	var bound handlers.FoodCourtFacade
	var engine *gin.Engine
	var store repository.Store
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(testConfig()),
			fx.Replace(testLogger()),
		),
		fx.Populate(&facade, &bound, &engine, &store),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil || engine == nil {
		t.Fatal("expected facade and router instances")
	}
	if bound != handlers.FoodCourtFacade(facade) {
		t.Fatal("expected handler facade to be the application facade")
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store without DATABASE_URI, got %T", store)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := fxApp.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
}

func TestStorageModuleSeeds(t *testing.T) {
	var seeder *usecase.SeedUseCase
	var store repository.Store
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		StorageModule(
			fx.Replace(testConfig()),
			fx.Replace(testLogger()),
		),
		fx.Populate(&seeder, &store),
	)
	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}

	lines, err := seeder.Seed(context.Background(), usecase.DefaultStalls())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if len(lines) == 0 {
		t.Fatal("expected seed report lines")
	}

	var stalls int
	err = store.WithinTransaction(context.Background(), func(tx repository.Factory) error {
		list, err := tx.Stalls().List(context.Background())
		stalls = len(list)
		return err
	})
	if err != nil {
		t.Fatalf("list stalls: %v", err)
	}
	if stalls != 3 {
		t.Fatalf("expected 3 seeded stalls, got %d", stalls)
	}
}
