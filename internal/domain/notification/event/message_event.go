package event

import "github.com/pulsespace/backend/internal/model"

// MESSAGE CREATED EVENT
type MessageCreatedEvent struct {
	model.Message
}

func (*MessageCreatedEvent) Op() string {
	return "message_created"
}

// MESSAGE UPDATED EVENT
type MessageUpdatedEvent struct {
	model.Message
}

func (*MessageUpdatedEvent) Op() string {
	return "message_updated"
}

// MESSAGE DELETED EVENT
type MessageDeletedEvent struct {
	MessageID int64 `json:"message_id,string"`
	ChannelID int64 `json:"channel_id,string"`
}

func (*MessageDeletedEvent) Op() string {
	return "message_deleted"
}
