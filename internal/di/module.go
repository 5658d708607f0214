package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/adapter/attempts"
	"github.com/polkiloo/foodcourt/internal/adapter/events"
	"github.com/polkiloo/foodcourt/internal/app"
	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/logger"
	"github.com/polkiloo/foodcourt/internal/metrics"
	"github.com/polkiloo/foodcourt/internal/pkg/auth"
	"github.com/polkiloo/foodcourt/internal/server/http/router"
	"github.com/polkiloo/foodcourt/internal/storage"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

// Module assembles the full application graph. Extra options are appended last so
// callers can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		attempts.Module,
		events.Module,
		metrics.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// StorageModule is the reduced graph used by maintenance commands that only need
// the store and use cases.
func StorageModule(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		attempts.Module,
		metrics.Module,
		usecase.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
