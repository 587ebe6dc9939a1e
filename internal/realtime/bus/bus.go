package bus

import (
	"context"

	"github.com/yungbote/partvault-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, evt realtime.Event) error
	StartForwarder(ctx context.Context, onEvent func(evt realtime.Event)) error
	Close() error
}

// NoopBus satisfies Bus when no broker is configured.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, realtime.Event) error { return nil }
func (NoopBus) StartForwarder(context.Context, func(evt realtime.Event)) error {
	return nil
}
func (NoopBus) Close() error { return nil }
