package model

type Workspace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

type WorkspaceMember struct {
	User     User   `json:"user"`
	Role     string `json:"role"`
	IsOnline bool   `json:"is_online"`
}

type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateWorkspaceResponse struct {
	Workspace Workspace `json:"workspace"`
}

type GetMyWorkspacesRequest struct{}

type GetMyWorkspacesResponse struct {
	Workspaces []Workspace `json:"workspaces"`
}

type InviteWorkspaceMemberRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Email       string `json:"email"`
}

type InviteWorkspaceMemberResponse struct{}

type GetWorkspaceMembersRequest struct {
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`
}

type GetWorkspaceMembersResponse struct {
	Members []WorkspaceMember `json:"members"`
}

type GetMyWorkspaceRoleRequest struct {
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`
}

type GetMyWorkspaceRoleResponse struct {
	Role string `json:"role"`
}
