package entity

import (
	"time"

	"github.com/pulsespace/backend/pkg/enum"
)

type WorkspaceRole string

var (
	WorkspaceRoleOwner  = enum.New(WorkspaceRole("owner"))
	WorkspaceRoleAdmin  = enum.New(WorkspaceRole("admin"))
	WorkspaceRoleMember = enum.New(WorkspaceRole("member"))
)

type Workspace struct {
	Base
	Name          string
	Description   string
	CreatedBy     string
	CreatedByUser User `gorm:"foreignKey:CreatedBy"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

type WorkspaceMember struct {
	WorkspaceID string    `gorm:"primaryKey"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Role      WorkspaceRole
	CreatedAt time.Time
}

func (WorkspaceMember) TableName() string {
	return "workspace_members"
}
