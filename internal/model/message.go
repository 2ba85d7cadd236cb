package model

type Message struct {
	ID        int64  `json:"id,string"`
	ChannelID int64  `json:"channel_id,string"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	ReplyToID int64  `json:"reply_to_id,string,omitempty"`
	CreatedAt string `json:"created_at"`
	EditedAt  string `json:"edited_at,omitempty"`
	IsDeleted bool   `json:"is_deleted,omitempty"`
}

type GetMessagesRequest struct {
	ChannelID int64 `json:"channel_id,string" form:"channel_id"`
	Before    int64 `json:"before,string" form:"before"`
	Limit     int   `json:"limit" form:"limit"`
}

type GetMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type SendMessageRequest struct {
	ChannelID int64  `json:"channel_id,string"`
	Content   string `json:"content"`
	ReplyToID int64  `json:"reply_to_id,string"`
}

type SendMessageResponse struct {
	Message Message `json:"message"`
}

type UpdateMessageRequest struct {
	MessageID int64  `json:"message_id,string"`
	Content   string `json:"content"`
}

type UpdateMessageResponse struct {
	Message Message `json:"message"`
}

type DeleteMessageRequest struct {
	MessageID int64 `json:"message_id,string"`
}

type DeleteMessageResponse struct{}

type MarkReadRequest struct {
	ChannelID int64 `json:"channel_id,string"`
	MessageID int64 `json:"message_id,string"`
}

type MarkReadResponse struct{}
