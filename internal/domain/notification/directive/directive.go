package directive

import "encoding/json"

// ClientDirective is a client-to-server instruction on a live connection.
// Data is decoded according to Op.
type ClientDirective struct {
	Op   string          `json:"o"`
	Data json.RawMessage `json:"d"`
}

const (
	PingOp        = "ping"
	SubscribeOp   = "subscribe"
	UnsubscribeOp = "unsubscribe"
	SendMessageOp = "send_message"
	MarkReadOp    = "mark_read"
)

type SubscribeDirective struct {
	ChannelID int64 `json:"channel_id,string"`
}

type UnsubscribeDirective struct {
	ChannelID int64 `json:"channel_id,string"`
}

type SendMessageDirective struct {
	ChannelID int64  `json:"channel_id,string"`
	Content   string `json:"content"`
	ReplyToID int64  `json:"reply_to_id,string"`
}

type MarkReadDirective struct {
	ChannelID int64 `json:"channel_id,string"`
	MessageID int64 `json:"message_id,string"`
}
