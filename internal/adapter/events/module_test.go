package events

import (
	"context"
	"testing"

	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/test"
)

func TestNewPublisherSelectsImplementation(t *testing.T) {
	lc := &test.LifecycleRecorder{}
	pub := newPublisher(publisherParams{Lifecycle: lc, Config: &config.Config{}, Logger: testLogger()})
	if _, ok := pub.(*LogPublisher); !ok {
		t.Fatalf("expected log publisher, got %T", pub)
	}

	pub = newPublisher(publisherParams{Lifecycle: lc, Config: &config.Config{AMQPURL: "amqp://localhost"}, Logger: testLogger()})
	if _, ok := pub.(*AMQPPublisher); !ok {
		t.Fatalf("expected amqp publisher, got %T", pub)
	}

	if len(lc.Hooks) != 2 {
		t.Fatalf("expected close hooks, got %d", len(lc.Hooks))
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("stop hooks returned %v", err)
	}
}
