package out

import (
	"context"

	"mindshelf/internal/modules/brain/domain"
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

func (n *EventNotifier) BrainChanged(ctx context.Context, brain domain.Brain) {
	err := n.bus.Publish(ctx, events.Event{
		Type:    events.TypeBrainUpdated,
		UserID:  n.userID,
		Payload: map[string]any{"revision": brain.Revision, "length": len(brain.Content)},
	})
	if err != nil {
		n.log.Warn("publish brain event failed", "revision", brain.Revision, "error", err)
	}
}
