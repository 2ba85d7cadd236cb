package model

import (
	"time"

	"github.com/pulsespace/backend/internal/entity"
)

func ConvertUser(user *entity.User) User {
	return User{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

func ConvertWorkspace(workspace *entity.Workspace) Workspace {
	return Workspace{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		CreatedBy:   workspace.CreatedBy,
	}
}

func ConvertChannel(channel *entity.Channel) Channel {
	return Channel{
		ID:          channel.ID,
		WorkspaceID: channel.WorkspaceID,
		Name:        channel.Name,
		Description: channel.Description,
		Visibility:  string(channel.Visibility),
		CreatedBy:   channel.CreatedBy,
	}
}

// ConvertMessage renders a message for clients. Deleted messages come out as
// tombstones with no content.
func ConvertMessage(message *entity.Message) Message {
	m := Message{
		ID:        message.ID,
		ChannelID: message.ChannelID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
		IsDeleted: message.IsDeleted(),
	}

	if message.ReplyToID.Valid {
		m.ReplyToID = message.ReplyToID.Int64
	}

	if message.EditedAt.Valid {
		m.EditedAt = message.EditedAt.Time.Format(time.RFC3339)
	}

	if m.IsDeleted {
		m.Content = ""
	}

	return m
}
