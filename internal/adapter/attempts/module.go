package attempts

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/config"
)

// Module exposes the attempt limiter to the fx graph.
var Module = fx.Provide(newLimiter)

type limiterParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newLimiter(p limiterParams) Limiter {
	if p.Config.RedisAddress == "" {
		return Noop{}
	}
	client := redis.NewClient(&redis.Options{Addr: p.Config.RedisAddress})
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisLimiter(client, p.Config.PINMaxAttempts, p.Config.PINAttemptWindow, p.Logger)
}
