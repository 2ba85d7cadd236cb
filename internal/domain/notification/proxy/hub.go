package proxy

import (
	"sync"

	"github.com/pulsespace/backend/internal/domain/notification/event"
)

// Hub fans events out to every session subscribed to one channel. A single
// goroutine drains the hub queue, so all sessions observe a channel's events
// in the order they were broadcast.
type Hub struct {
	channelID int64
	sessions  map[string]*Session
	c         chan *event.EventRequest

	mutex sync.RWMutex
}

func NewHub(channelID int64) *Hub {
	h := &Hub{
		channelID: channelID,
		sessions:  make(map[string]*Session),
		mutex:     sync.RWMutex{},
		c:         make(chan *event.EventRequest, 8),
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		ev, ok := <-h.c
		if !ok {
			break
		}

		h.mutex.RLock()
		for _, s := range h.sessions {
			// A session with a full queue misses this event rather than
			// stalling every other session on the channel.
			select {
			case s.C <- ev:
			default:
			}
		}
		h.mutex.RUnlock()
	}
}

func (h *Hub) Broadcast(ev *event.EventRequest) {
	h.c <- ev
}

func (h *Hub) Register(session *Session) {
	h.mutex.RLock()
	_, ok := h.sessions[session.id]
	h.mutex.RUnlock()
	if ok {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	// Double check.
	if _, ok := h.sessions[session.id]; !ok {
		h.sessions[session.id] = session
	}
}

func (h *Hub) Unregister(session *Session) {
	h.mutex.RLock()
	_, ok := h.sessions[session.id]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.sessions, session.id)
}

func (h *Hub) IsEmpty() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions) == 0
}
