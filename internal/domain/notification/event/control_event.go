package event

import "github.com/pulsespace/backend/internal/model"

// READY EVENT: sent once after the handshake with the caller's channel
// memberships and read cursors, so a client can hydrate before subscribing.
type ReadyEvent struct {
	ChannelMembers []ChannelMemberState `json:"channel_members"`
}

type ChannelMemberState struct {
	Channel           model.Channel `json:"channel"`
	LastReadMessageID int64         `json:"last_read_message_id,string"`
}

func (*ReadyEvent) Op() string {
	return "ready"
}

// SUBSCRIBED EVENT: acknowledges a subscribe directive.
type SubscribedEvent struct {
	ChannelID int64 `json:"channel_id,string"`
}

func (*SubscribedEvent) Op() string {
	return "subscribed"
}

// UNSUBSCRIBED EVENT
type UnsubscribedEvent struct {
	ChannelID int64 `json:"channel_id,string"`
}

func (*UnsubscribedEvent) Op() string {
	return "unsubscribed"
}

// ERROR EVENT: reports a failed directive without tearing the connection
// down.
type ErrorEvent struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

func (*ErrorEvent) Op() string {
	return "error"
}
