package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/partvault-backend/internal/observability"
	"github.com/yungbote/partvault-backend/internal/pkg/logger"
	"github.com/yungbote/partvault-backend/internal/realtime"
	"github.com/yungbote/partvault-backend/internal/realtime/bus"
)

// EventPublisher pushes part lifecycle events after a committed write.
// Publish failures are logged and counted, never surfaced to the caller.
type EventPublisher struct {
	log     *logger.Logger
	bus     bus.Bus
	metrics *observability.Metrics
}

func NewEventPublisher(log *logger.Logger, b bus.Bus, metrics *observability.Metrics) *EventPublisher {
	if b == nil {
		b = bus.NoopBus{}
	}
	return &EventPublisher{
		log:     log.With("service", "EventPublisher"),
		bus:     b,
		metrics: metrics,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, eventType string, partID uuid.UUID, versionID *uuid.UUID, actor uuid.UUID) {
	if p == nil {
		return
	}
	evt := realtime.Event{
		Type:          eventType,
		PartID:        partID,
		PartVersionID: versionID,
		Actor:         actor,
		At:            time.Now().UTC(),
	}
	if err := p.bus.Publish(ctx, evt); err != nil {
		p.log.Warn("event publish failed", "type", eventType, "part_id", partID.String(), "error", err)
		p.metrics.IncEventPublished(eventType, "failure")
		return
	}
	p.metrics.IncEventPublished(eventType, "success")
}
