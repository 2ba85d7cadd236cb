package event

// Event is a server-to-client notification. Op names the event kind on the
// wire.
type Event interface {
	Op() string
}

// Metadata routes an event to its topic: the owning channel.
type Metadata struct {
	To int64 `json:"to,string"`
}

type EventRequest struct {
	Op       string   `json:"o"`
	Data     any      `json:"d"`
	Metadata Metadata `json:"m"`
}

// EventResponse is the framed form actually written to a session, carrying
// the session's sequence number.
type EventResponse struct {
	Op   string `json:"o"`
	Seq  int64  `json:"s"`
	Data any    `json:"d"`
}

func New(ev Event, metadata Metadata) *EventRequest {
	return &EventRequest{
		Op:       ev.Op(),
		Data:     ev,
		Metadata: metadata,
	}
}

func Format(event *EventRequest, seq int64) *EventResponse {
	return &EventResponse{
		Op:   event.Op,
		Seq:  seq,
		Data: event.Data,
	}
}
