package model

type Channel struct {
	ID          int64  `json:"id,string"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	CreatedBy   string `json:"created_by"`
}

type ChannelMember struct {
	User              User   `json:"user"`
	Role              string `json:"role"`
	LastReadMessageID int64  `json:"last_read_message_id,string"`
}

type CreateChannelRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

type CreateChannelResponse struct {
	Channel Channel `json:"channel"`
}

type GetWorkspaceChannelsRequest struct {
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`
}

type GetWorkspaceChannelsResponse struct {
	Channels []Channel `json:"channels"`
}

type InviteChannelMemberRequest struct {
	ChannelID int64  `json:"channel_id,string"`
	Email     string `json:"email"`
}

type InviteChannelMemberResponse struct{}

type GetChannelMembersRequest struct {
	ChannelID int64 `json:"channel_id,string" form:"channel_id"`
}

type GetChannelMembersResponse struct {
	Members []ChannelMember `json:"members"`
}

type GetMyChannelRoleRequest struct {
	ChannelID int64 `json:"channel_id,string" form:"channel_id"`
}

type GetMyChannelRoleResponse struct {
	Role string `json:"role"`
}
