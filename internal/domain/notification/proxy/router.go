package proxy

import (
	"context"

	"github.com/puzpuzpuz/xsync"

	"github.com/pulsespace/backend/internal/domain/notification/event"
)

// Router owns one hub per channel. Hubs are created on first subscription and
// live for the process lifetime; their count is bounded by the number of
// channels ever subscribed to.
type Router struct {
	hubs *xsync.MapOf[int64, *Hub]
}

func NewRouter() *Router {
	return &Router{hubs: xsync.NewIntegerMapOf[int64, *Hub]()}
}

func (r *Router) GetHub(channelID int64) *Hub {
	if hub, ok := r.hubs.Load(channelID); ok {
		return hub
	}

	// LoadOrCompute may evaluate its function twice and store a value other
	// than the one it returns, which would strand the caller on an orphan
	// hub. Build the hub eagerly and race with LoadOrStore instead.
	newHub := NewHub(channelID)
	hub, loaded := r.hubs.LoadOrStore(channelID, newHub)
	if loaded {
		close(newHub.c)
	}

	return hub
}

// Emit routes an event to the hub of its target channel. An event for a
// channel nobody has subscribed to is dropped.
func (r *Router) Emit(ctx context.Context, ev *event.EventRequest) error {
	if hub, ok := r.hubs.Load(ev.Metadata.To); ok {
		hub.Broadcast(ev)
	}

	return nil
}
