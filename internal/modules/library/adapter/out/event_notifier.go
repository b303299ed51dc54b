package out

import (
	"context"

	"mindshelf/internal/modules/library/domain"
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

func (n *EventNotifier) ItemChanged(ctx context.Context, item domain.Item) {
	n.publish(ctx, events.Event{
		Type:   events.TypeItemUpdated,
		UserID: n.userID,
		ItemID: item.ID,
		Payload: map[string]any{
			"title":            item.Title,
			"analysis_status":  string(item.AnalysisStatus),
			"lifecycle_status": string(item.LifecycleStatus),
			"is_test_passed":   item.IsTestPassed,
		},
	})
}

func (n *EventNotifier) ItemDeleted(ctx context.Context, id string) {
	n.publish(ctx, events.Event{Type: events.TypeItemDeleted, UserID: n.userID, ItemID: id})
}

func (n *EventNotifier) publish(ctx context.Context, event events.Event) {
	if err := n.bus.Publish(ctx, event); err != nil {
		n.log.Warn("publish item event failed", "type", event.Type, "item_id", event.ItemID, "error", err)
	}
}
