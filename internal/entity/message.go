package entity

import (
	"database/sql"
	"time"
)

// Message rows are never hard-deleted. A deleted message keeps its row as a
// tombstone so history reads and the broadcast path agree on what happened.
type Message struct {
	ID int64 `gorm:"primaryKey"`

	ChannelID int64   `gorm:"index:idx_messages_channel_id"`
	Channel   Channel `gorm:"foreignKey:ChannelID"`

	SenderID string `gorm:"column:sender_user_id"`
	Sender   User   `gorm:"foreignKey:SenderID"`

	Content   string `gorm:"type:text"`
	ReplyToID sql.NullInt64

	CreatedAt time.Time
	EditedAt  sql.NullTime
	DeletedAt sql.NullTime
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) IsDeleted() bool {
	return m.DeletedAt.Valid
}
