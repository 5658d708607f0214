package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	testhelpers "github.com/polkiloo/foodcourt/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestOutboxRelayPublishesAndMarksEvents(t *testing.T) {
	facade := &testhelpers.OutboxFacadeStub{Batches: [][]model.OrderEvent{
		{{ID: 1, Kind: model.EventOrderPlaced}, {ID: 2, Kind: model.EventOrderPlaced}},
		{{ID: 3, Kind: model.EventOrderServed}},
	}}
	observer := &testhelpers.RelayObserverStub{}
	relay := NewOutboxRelay(facade, observer, time.Millisecond, 2, 2, testLogger())

	relay.Start(context.Background())
	waitFor(t, func() bool { return len(facade.Marked()) == 3 })
	relay.Stop()

	marked := facade.Marked()
	sort.Slice(marked, func(i, j int) bool { return marked[i] < marked[j] })
	for i, id := range []int64{1, 2, 3} {
		if marked[i] != id {
			t.Fatalf("unexpected marked ids %v", marked)
		}
	}
	if ok, failed := observer.Counts(); ok != 3 || failed != 0 {
		t.Fatalf("unexpected observer counts ok=%d failed=%d", ok, failed)
	}
}

func TestOutboxRelayLeavesFailedEventsUnmarked(t *testing.T) {
	facade := &testhelpers.OutboxFacadeStub{
		Batches: [][]model.OrderEvent{{{ID: 7}, {ID: 8}}},
		PublishFn: func(_ context.Context, ev model.OrderEvent) error {
			if ev.ID == 7 {
				return errors.New("broker down")
			}
			return nil
		},
	}
	observer := &testhelpers.RelayObserverStub{}
	relay := NewOutboxRelay(facade, observer, time.Millisecond, 5, 1, testLogger())

	relay.Start(context.Background())
	waitFor(t, func() bool {
		ok, failed := observer.Counts()
		return ok+failed == 2
	})
	relay.Stop()

	if marked := facade.Marked(); len(marked) != 1 || marked[0] != 8 {
		t.Fatalf("expected only event 8 to be marked, got %v", marked)
	}
	if ok, failed := observer.Counts(); ok != 1 || failed != 1 {
		t.Fatalf("unexpected observer counts ok=%d failed=%d", ok, failed)
	}
}

func TestOutboxRelayUsesLeaseAndBatchSize(t *testing.T) {
	var gotLimit atomic.Int64
	var gotLease atomic.Int64
	facade := &testhelpers.OutboxFacadeStub{
		ClaimFn: func(_ context.Context, limit int, lease time.Duration) ([]model.OrderEvent, error) {
			gotLimit.Store(int64(limit))
			gotLease.Store(int64(lease))
			return nil, nil
		},
	}
	relay := NewOutboxRelay(facade, &testhelpers.RelayObserverStub{}, time.Millisecond, 25, 1, testLogger())

	relay.Start(context.Background())
	waitFor(t, func() bool { return gotLimit.Load() != 0 })
	relay.Stop()

	if gotLimit.Load() != 25 {
		t.Fatalf("expected batch size 25, got %d", gotLimit.Load())
	}
	if time.Duration(gotLease.Load()) != minLease {
		t.Fatalf("expected minimum lease %v, got %v", minLease, time.Duration(gotLease.Load()))
	}
}

func TestOutboxRelaySurvivesClaimErrors(t *testing.T) {
	var calls atomic.Int32
	facade := &testhelpers.OutboxFacadeStub{
		ClaimFn: func(context.Context, int, time.Duration) ([]model.OrderEvent, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("db unavailable")
			}
			return nil, nil
		},
	}
	relay := NewOutboxRelay(facade, &testhelpers.RelayObserverStub{}, time.Millisecond, 1, 1, testLogger())

	relay.Start(context.Background())
	waitFor(t, func() bool { return calls.Load() >= 3 })
	relay.Stop()
}

func TestNewOutboxRelayNormalizesSettings(t *testing.T) {
	relay := NewOutboxRelay(&testhelpers.OutboxFacadeStub{}, &testhelpers.RelayObserverStub{}, 0, 0, 0, testLogger())
	if relay.workers != 1 || relay.batchSize != 1 || relay.pollInterval != time.Second {
		t.Fatalf("unexpected defaults workers=%d batch=%d poll=%v", relay.workers, relay.batchSize, relay.pollInterval)
	}

	relay = NewOutboxRelay(&testhelpers.OutboxFacadeStub{}, &testhelpers.RelayObserverStub{}, 10*time.Second, 1, 1, testLogger())
	if relay.lease != 100*time.Second {
		t.Fatalf("expected lease of ten poll intervals, got %v", relay.lease)
	}
}

func TestOutboxRelayStopWithoutStart(t *testing.T) {
	relay := NewOutboxRelay(&testhelpers.OutboxFacadeStub{}, &testhelpers.RelayObserverStub{}, time.Millisecond, 1, 1, testLogger())
	relay.Stop()
}
