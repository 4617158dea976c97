package snapshot

import (
	"context"

	"github.com/richxcame/salon-safety/internal/risk"
	"github.com/richxcame/salon-safety/pkg/eventbus"
)

// EventPublisher publishes fraud alerts on the event bus, one message per alert.
// The alert id doubles as the message id so rebuilt snapshots do not re-deliver.
type EventPublisher struct {
	bus     eventbus.Publisher
	subject string
}

var _ AlertPublisher = (*EventPublisher)(nil)

// NewEventPublisher creates a new alert publisher
func NewEventPublisher(bus eventbus.Publisher, subject string) *EventPublisher {
	return &EventPublisher{bus: bus, subject: subject}
}

// PublishAlerts publishes every alert
func (p *EventPublisher) PublishAlerts(ctx context.Context, alerts []risk.FraudAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	msgs := make([]eventbus.Message, 0, len(alerts))
	for _, alert := range alerts {
		msgs = append(msgs, eventbus.Message{ID: alert.ID, Payload: alert})
	}
	return p.bus.PublishBatch(ctx, p.subject, msgs)
}
