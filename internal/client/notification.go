package client

import (
	"context"

	"github.com/pulsespace/backend/internal/domain/notification/event"
)

// NotificationBusCaller publishes events towards live connections. Domains
// depend on this interface so tests can capture emitted events, and so the
// fan-out implementation stays swappable.
type NotificationBusCaller interface {
	Emit(ctx context.Context, ev *event.EventRequest) error
}
