package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/config"
)

// Module exposes the event publisher to the fx graph.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) Publisher {
	var pub Publisher
	if p.Config.AMQPURL == "" {
		p.Logger.Info("AMQP_URL is empty, order events are logged only")
		pub = NewLogPublisher(p.Logger)
	} else {
		pub = NewAMQPPublisher(p.Config.AMQPURL, p.Logger)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	})
	return pub
}
