package repository

import (
	"context"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// StallRepository gives access to stalls and their menus.
type StallRepository interface {
	List(ctx context.Context) ([]model.Stall, error)
	GetByID(ctx context.Context, stallID string) (*model.Stall, error)
	// Upsert creates or renames a stall and replaces its menu.
	Upsert(ctx context.Context, stall model.Stall) error
}
