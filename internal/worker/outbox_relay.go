package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

const minLease = 30 * time.Second

// OutboxFacade exposes the subset of application functionality required by the relay.
type OutboxFacade interface {
	ClaimEvents(ctx context.Context, limit int, lease time.Duration) ([]model.OrderEvent, error)
	PublishEvent(ctx context.Context, event model.OrderEvent) error
	MarkEventPublished(ctx context.Context, id int64) error
}

// RelayObserver is notified about every publish attempt.
type RelayObserver interface {
	EventRelayed(ok bool)
}

// OutboxRelay claims committed order events and hands them to the publisher concurrently.
// An event whose publish fails stays unpublished and is claimed again after its lease.
type OutboxRelay struct {
	facade       OutboxFacade
	observer     RelayObserver
	pollInterval time.Duration
	lease        time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.OrderEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOutboxRelay constructs the relay worker pool.
func NewOutboxRelay(facade OutboxFacade, observer RelayObserver, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *OutboxRelay {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	lease := 10 * pollInterval
	if lease < minLease {
		lease = minLease
	}
	return &OutboxRelay{
		facade:       facade,
		observer:     observer,
		pollInterval: pollInterval,
		lease:        lease,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.OrderEvent, batchSize*workers),
	}
}

// Start launches background relaying.
func (r *OutboxRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *OutboxRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *OutboxRelay) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.claimAndDispatch(ctx)
		}
	}
}

func (r *OutboxRelay) claimAndDispatch(ctx context.Context) {
	events, err := r.facade.ClaimEvents(ctx, r.batchSize, r.lease)
	if err != nil {
		r.logger.Error("claim outbox events failed", slog.String("error", err.Error()))
		return
	}
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- event:
		}
	}
}

func (r *OutboxRelay) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleEvent(ctx, event)
		}
	}
}

func (r *OutboxRelay) handleEvent(ctx context.Context, event model.OrderEvent) {
	if err := r.facade.PublishEvent(ctx, event); err != nil {
		r.observer.EventRelayed(false)
		r.logger.Warn("publish order event failed",
			slog.Int64("event_id", event.ID),
			slog.String("kind", string(event.Kind)),
			slog.String("error", err.Error()),
		)
		return
	}
	r.observer.EventRelayed(true)

	if err := r.facade.MarkEventPublished(ctx, event.ID); err != nil {
		r.logger.Error("mark event published failed", slog.Int64("event_id", event.ID), slog.String("error", err.Error()))
	}
}
