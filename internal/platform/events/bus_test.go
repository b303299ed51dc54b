package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"mindshelf/internal/platform/events"
)

func TestLocalBusFansOutUntilForwarderContextEnds(t *testing.T) {
	t.Parallel()
	bus := events.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var got []events.Event
	if err := bus.StartForwarder(ctx, func(e events.Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	}); err != nil {
		t.Fatalf("start forwarder: %v", err)
	}

	if err := bus.Publish(context.Background(), events.Event{Type: events.TypeItemUpdated, ItemID: "a"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	mu.Lock()
	if len(got) != 1 || got[0].ItemID != "a" || got[0].OccurredAt.IsZero() {
		t.Fatalf("unexpected delivery: %+v", got)
	}
	mu.Unlock()

	cancel()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		before := len(got)
		mu.Unlock()
		_ = bus.Publish(context.Background(), events.Event{Type: events.TypeItemUpdated, ItemID: "late"})
		mu.Lock()
		after := len(got)
		mu.Unlock()
		if after == before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("forwarder still receiving after cancel")
}

func TestLocalBusRejectsForwardersAfterClose(t *testing.T) {
	t.Parallel()
	bus := events.NewLocalBus()
	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := bus.StartForwarder(context.Background(), func(events.Event) {}); err == nil {
		t.Fatalf("expected error after close")
	}
}
