package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	"github.com/polkiloo/foodcourt/internal/storage/memory"
)

type closeRecorder struct {
	repository.Store
	closed bool
}

func (c *closeRecorder) Close() { c.closed = true }

func TestNewStoreFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store, err := newStore(storeParams{Ctx: context.Background(), Config: &config.Config{}, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestNewStoreOpensPostgres(t *testing.T) {
	original := openPostgres
	t.Cleanup(func() { openPostgres = original })

	var gotDSN string
	openPostgres = func(_ context.Context, dsn string, _ *slog.Logger) (repository.Store, error) {
		gotDSN = dsn
		return nil, errors.New("unreachable")
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	_, err := newStore(storeParams{
		Ctx:    context.Background(),
		Config: &config.Config{DatabaseURI: "postgres://db"},
		Logger: logger,
	})
	if err == nil {
		t.Fatal("expected error from postgres opener")
	}
	if gotDSN != "postgres://db" {
		t.Fatalf("unexpected dsn: %q", gotDSN)
	}
}

func TestRegisterLifecycleClosesStore(t *testing.T) {
	store := &closeRecorder{Store: memory.New()}
	lc := fxtest.NewLifecycle(t)
	registerLifecycle(lc, store)

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !store.closed {
		t.Fatal("expected store to be closed")
	}
}
