package proxy

import (
	"github.com/google/uuid"
	"github.com/pulsespace/backend/internal/domain/notification/event"
)

// Session is one live connection's subscription state. It is owned by a
// single serve loop; only hubs touch it from other goroutines, and they only
// send on C.
type Session struct {
	C chan *event.EventRequest

	id         string
	joinedHubs map[int64]*Hub
}

func NewSession() *Session {
	return &Session{
		C:          make(chan *event.EventRequest, 16),
		id:         uuid.NewString(),
		joinedHubs: make(map[int64]*Hub),
	}
}

func (s *Session) JoinHub(hub *Hub) {
	hub.Register(s)
	s.joinedHubs[hub.channelID] = hub
}

// LeaveHub unsubscribes from one channel. Leaving a channel the session never
// joined is a no-op.
func (s *Session) LeaveHub(channelID int64) {
	hub, ok := s.joinedHubs[channelID]
	if !ok {
		return
	}

	hub.Unregister(s)
	delete(s.joinedHubs, channelID)
}

// LeaveAllHubs tears the session down. The session is removed from every hub
// before C is closed, so no hub can send on a closed channel.
func (s *Session) LeaveAllHubs() {
	for _, hub := range s.joinedHubs {
		hub.Unregister(s)
	}

	s.joinedHubs = make(map[int64]*Hub)
	close(s.C)
}
