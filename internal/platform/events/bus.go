package events

import (
	"context"
	"sync"
	"time"
)

const (
	TypeItemUpdated   = "item.updated"
	TypeItemDeleted   = "item.deleted"
	TypeBrainUpdated  = "brain.updated"
	TypeActivityDelta = "activity.recorded"
)

// Event is a change notification fanned out to observers (SSE clients, TUI).
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ItemID     string    `json:"item_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Bus interface {
	Publish(ctx context.Context, event Event) error
	// StartForwarder calls onMsg for every event until ctx is done.
	// onMsg must not block.
	StartForwarder(ctx context.Context, onMsg func(Event)) error
	Close() error
}

// LocalBus fans events out in-process.
type LocalBus struct {
	mu     sync.RWMutex
	next   int
	subs   map[int]func(Event)
	closed bool
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: map[int]func(Event){}}
}

func (b *LocalBus) Publish(_ context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(event)
	}
	return nil
}

func (b *LocalBus) StartForwarder(ctx context.Context, onMsg func(Event)) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return context.Canceled
	}
	id := b.next
	b.next++
	b.subs[id] = onMsg
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[int]func(Event){}
	return nil
}
