package entity

import (
	"time"

	"github.com/pulsespace/backend/pkg/enum"
)

type ChannelVisibility string

var (
	ChannelVisibilityPublic  = enum.New(ChannelVisibility("public"))
	ChannelVisibilityPrivate = enum.New(ChannelVisibility("private"))
)

type ChannelRole string

var (
	ChannelRoleOwner  = enum.New(ChannelRole("owner"))
	ChannelRoleMember = enum.New(ChannelRole("member"))
)

type Channel struct {
	SnowFlakeBase
	WorkspaceID string    `gorm:"index"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`

	Name        string
	Description string
	Visibility  ChannelVisibility
	CreatedBy   string
}

func (Channel) TableName() string {
	return "channels"
}

type ChannelMember struct {
	ChannelID int64   `gorm:"primaryKey"`
	Channel   Channel `gorm:"foreignKey:ChannelID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Role ChannelRole

	// LastReadMessageID is the member's read cursor. It only moves forward;
	// see ChannelMemberRepository.AdvanceLastRead.
	LastReadMessageID int64

	CreatedAt time.Time
}

func (ChannelMember) TableName() string {
	return "channel_members"
}
