package out

import (
	"context"

	"mindshelf/internal/platform/events"
	"mindshelf/internal/platform/logger"
)

type EventNotifier struct {
	bus    events.Bus
	userID string
	log    *logger.Logger
}

func NewEventNotifier(bus events.Bus, userID string, log *logger.Logger) *EventNotifier {
	return &EventNotifier{bus: bus, userID: userID, log: log}
}

func (n *EventNotifier) ActivityRecorded(ctx context.Context, day string, count int) {
	err := n.bus.Publish(ctx, events.Event{
		Type:    events.TypeActivityDelta,
		UserID:  n.userID,
		Payload: map[string]any{"day": day, "count": count},
	})
	if err != nil {
		n.log.Warn("publish activity event failed", "day", day, "error", err)
	}
}
