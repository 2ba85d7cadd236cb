package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsespace/backend/internal/common"
	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/errorx"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type WorkspaceDomain interface {
	Create(ctx context.Context, req *model.CreateWorkspaceRequest) (*model.CreateWorkspaceResponse, error)
	GetMyList(ctx context.Context, req *model.GetMyWorkspacesRequest) (*model.GetMyWorkspacesResponse, error)
	InviteMember(ctx context.Context, req *model.InviteWorkspaceMemberRequest) (*model.InviteWorkspaceMemberResponse, error)
	GetMembers(ctx context.Context, req *model.GetWorkspaceMembersRequest) (*model.GetWorkspaceMembersResponse, error)
	GetMyRole(ctx context.Context, req *model.GetMyWorkspaceRoleRequest) (*model.GetMyWorkspaceRoleResponse, error)
}

type workspaceDomain struct {
	workspaceRepo       repository.WorkspaceRepository
	workspaceMemberRepo repository.WorkspaceMemberRepository
	userRepo            repository.UserRepository
	presenceRepo        repository.PresenceRepository
	roleVerifier        *common.WorkspaceRoleVerifier
}

func NewWorkspaceDomain(
	workspaceRepo repository.WorkspaceRepository,
	workspaceMemberRepo repository.WorkspaceMemberRepository,
	userRepo repository.UserRepository,
	presenceRepo repository.PresenceRepository,
) *workspaceDomain {
	return &workspaceDomain{
		workspaceRepo:       workspaceRepo,
		workspaceMemberRepo: workspaceMemberRepo,
		userRepo:            userRepo,
		presenceRepo:        presenceRepo,
		roleVerifier:        common.NewWorkspaceRoleVerifier(workspaceMemberRepo),
	}
}

// Create makes a workspace and enrolls the creator as its owner.
func (d *workspaceDomain) Create(
	ctx context.Context, req *model.CreateWorkspaceRequest,
) (*model.CreateWorkspaceResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a non-empty workspace name")
	}

	userID := xcontext.RequestUserID(ctx)
	workspace := &entity.Workspace{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}

	if err := d.workspaceRepo.Create(ctx, workspace); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create workspace: %v", err)
		return nil, errorx.Unknown
	}

	err := d.workspaceMemberRepo.Create(ctx, &entity.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        entity.WorkspaceRoleOwner,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create workspace owner member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateWorkspaceResponse{Workspace: model.ConvertWorkspace(workspace)}, nil
}

func (d *workspaceDomain) GetMyList(
	ctx context.Context, req *model.GetMyWorkspacesRequest,
) (*model.GetMyWorkspacesResponse, error) {
	members, err := d.workspaceMemberRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get workspace members: %v", err)
		return nil, errorx.Unknown
	}

	workspaceIDs := []string{}
	for _, member := range members {
		workspaceIDs = append(workspaceIDs, member.WorkspaceID)
	}

	workspaces, err := d.workspaceRepo.GetByIDs(ctx, workspaceIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get workspaces: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMyWorkspacesResponse{Workspaces: []model.Workspace{}}
	for i := range workspaces {
		resp.Workspaces = append(resp.Workspaces, model.ConvertWorkspace(&workspaces[i]))
	}

	return resp, nil
}

// InviteMember adds a registered user to the workspace. Only the owner and
// admins can invite.
func (d *workspaceDomain) InviteMember(
	ctx context.Context, req *model.InviteWorkspaceMemberRequest,
) (*model.InviteWorkspaceMemberResponse, error) {
	if _, err := d.workspaceRepo.GetByID(ctx, req.WorkspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get workspace: %v", err)
		return nil, errorx.Unknown
	}

	err := d.roleVerifier.CanManageWorkspace(ctx, req.WorkspaceID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, common.ErrNotAMember) || errors.Is(err, common.ErrForbidden) {
			return nil, errorx.New(errorx.PermissionDenied, "Only the owner or an admin can invite")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify workspace role: %v", err)
		return nil, errorx.Unknown
	}

	invitee, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.workspaceMemberRepo.Get(ctx, req.WorkspaceID, invitee.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "User is already a member")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get workspace member: %v", err)
		return nil, errorx.Unknown
	}

	err = d.workspaceMemberRepo.Create(ctx, &entity.WorkspaceMember{
		WorkspaceID: req.WorkspaceID,
		UserID:      invitee.ID,
		Role:        entity.WorkspaceRoleMember,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create workspace member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InviteWorkspaceMemberResponse{}, nil
}

// GetMembers lists the workspace roster with live presence flags. Any member
// can see the roster.
func (d *workspaceDomain) GetMembers(
	ctx context.Context, req *model.GetWorkspaceMembersRequest,
) (*model.GetWorkspaceMembersResponse, error) {
	if err := d.roleVerifier.Verify(ctx, req.WorkspaceID, xcontext.RequestUserID(ctx)); err != nil {
		if errors.Is(err, common.ErrNotAMember) {
			return nil, errorx.New(errorx.PermissionDenied, "You are not a member of this workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify workspace role: %v", err)
		return nil, errorx.Unknown
	}

	members, err := d.workspaceMemberRepo.GetListByWorkspaceID(ctx, req.WorkspaceID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get workspace members: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := []string{}
	for _, member := range members {
		userIDs = append(userIDs, member.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]entity.User{}
	for _, user := range users {
		userMap[user.ID] = user
	}

	online, err := d.presenceRepo.GetOnline(ctx, userIDs)
	if err != nil {
		// Presence is best-effort; the roster is still useful without it.
		xcontext.Logger(ctx).Warnf("Cannot get presence: %v", err)
		online = map[string]bool{}
	}

	resp := &model.GetWorkspaceMembersResponse{Members: []model.WorkspaceMember{}}
	for _, member := range members {
		user, ok := userMap[member.UserID]
		if !ok {
			continue
		}

		resp.Members = append(resp.Members, model.WorkspaceMember{
			User:     model.ConvertUser(&user),
			Role:     string(member.Role),
			IsOnline: online[member.UserID],
		})
	}

	return resp, nil
}

func (d *workspaceDomain) GetMyRole(
	ctx context.Context, req *model.GetMyWorkspaceRoleRequest,
) (*model.GetMyWorkspaceRoleResponse, error) {
	member, err := d.workspaceMemberRepo.Get(ctx, req.WorkspaceID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotAMember, "You are not a member of this workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get workspace member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyWorkspaceRoleResponse{Role: string(member.Role)}, nil
}
