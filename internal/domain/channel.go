package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pulsespace/backend/internal/common"
	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/enum"
	"github.com/pulsespace/backend/pkg/errorx"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type ChannelDomain interface {
	Create(ctx context.Context, req *model.CreateChannelRequest) (*model.CreateChannelResponse, error)
	GetList(ctx context.Context, req *model.GetWorkspaceChannelsRequest) (*model.GetWorkspaceChannelsResponse, error)
	InviteMember(ctx context.Context, req *model.InviteChannelMemberRequest) (*model.InviteChannelMemberResponse, error)
	GetMembers(ctx context.Context, req *model.GetChannelMembersRequest) (*model.GetChannelMembersResponse, error)
	GetMyRole(ctx context.Context, req *model.GetMyChannelRoleRequest) (*model.GetMyChannelRoleResponse, error)
}

type channelDomain struct {
	channelRepo         repository.ChannelRepository
	channelMemberRepo   repository.ChannelMemberRepository
	workspaceRepo       repository.WorkspaceRepository
	workspaceMemberRepo repository.WorkspaceMemberRepository
	userRepo            repository.UserRepository
	workspaceVerifier   *common.WorkspaceRoleVerifier
	channelVerifier     *common.ChannelAccessVerifier
}

func NewChannelDomain(
	channelRepo repository.ChannelRepository,
	channelMemberRepo repository.ChannelMemberRepository,
	workspaceRepo repository.WorkspaceRepository,
	workspaceMemberRepo repository.WorkspaceMemberRepository,
	userRepo repository.UserRepository,
) *channelDomain {
	return &channelDomain{
		channelRepo:         channelRepo,
		channelMemberRepo:   channelMemberRepo,
		workspaceRepo:       workspaceRepo,
		workspaceMemberRepo: workspaceMemberRepo,
		userRepo:            userRepo,
		workspaceVerifier:   common.NewWorkspaceRoleVerifier(workspaceMemberRepo),
		channelVerifier:     common.NewChannelAccessVerifier(workspaceMemberRepo, channelMemberRepo),
	}
}

// Create makes a channel in a workspace the caller belongs to. The creator
// becomes the channel owner and its only initial member.
func (d *channelDomain) Create(
	ctx context.Context, req *model.CreateChannelRequest,
) (*model.CreateChannelResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a non-empty channel name")
	}

	visibility, err := enum.ToEnum[entity.ChannelVisibility](req.Visibility)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
	}

	if _, err := d.workspaceRepo.GetByID(ctx, req.WorkspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get workspace: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.workspaceVerifier.Verify(ctx, req.WorkspaceID, userID); err != nil {
		if errors.Is(err, common.ErrNotAMember) {
			return nil, errorx.New(errorx.PermissionDenied, "You are not a member of this workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify workspace role: %v", err)
		return nil, errorx.Unknown
	}

	channel := &entity.Channel{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		WorkspaceID:   req.WorkspaceID,
		Name:          req.Name,
		Description:   req.Description,
		Visibility:    visibility,
		CreatedBy:     userID,
	}

	if err := d.channelRepo.Create(ctx, channel); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create channel: %v", err)
		return nil, errorx.Unknown
	}

	err = d.channelMemberRepo.Create(ctx, &entity.ChannelMember{
		ChannelID: channel.ID,
		UserID:    userID,
		Role:      entity.ChannelRoleOwner,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create channel owner member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChannelResponse{Channel: model.ConvertChannel(channel)}, nil
}

// GetList returns the workspace's channels the caller may see: every public
// channel, plus the private ones they belong to.
func (d *channelDomain) GetList(
	ctx context.Context, req *model.GetWorkspaceChannelsRequest,
) (*model.GetWorkspaceChannelsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.workspaceVerifier.Verify(ctx, req.WorkspaceID, userID); err != nil {
		if errors.Is(err, common.ErrNotAMember) {
			return nil, errorx.New(errorx.PermissionDenied, "You are not a member of this workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify workspace role: %v", err)
		return nil, errorx.Unknown
	}

	channels, err := d.channelRepo.GetListByWorkspaceID(ctx, req.WorkspaceID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get channels: %v", err)
		return nil, errorx.Unknown
	}

	myMembers, err := d.channelMemberRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get channel members: %v", err)
		return nil, errorx.Unknown
	}

	myChannels := map[int64]bool{}
	for _, member := range myMembers {
		myChannels[member.ChannelID] = true
	}

	resp := &model.GetWorkspaceChannelsResponse{Channels: []model.Channel{}}
	for i := range channels {
		if channels[i].Visibility == entity.ChannelVisibilityPrivate && !myChannels[channels[i].ID] {
			continue
		}

		resp.Channels = append(resp.Channels, model.ConvertChannel(&channels[i]))
	}

	return resp, nil
}

// InviteMember adds a workspace member to the channel. Only the channel owner
// can invite, and the invitee must already belong to the workspace.
func (d *channelDomain) InviteMember(
	ctx context.Context, req *model.InviteChannelMemberRequest,
) (*model.InviteChannelMemberResponse, error) {
	channel, err := d.channelRepo.GetByID(ctx, req.ChannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return nil, errorx.Unknown
	}

	err = d.channelVerifier.CanManageMembers(ctx, xcontext.RequestUserID(ctx), channel.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotAMember) || errors.Is(err, common.ErrForbidden) {
			return nil, errorx.New(errorx.PermissionDenied, "Only the channel owner can invite")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify channel role: %v", err)
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

	if _, err := d.workspaceMemberRepo.Get(ctx, channel.WorkspaceID, invitee.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotAMember, "User is not a member of the workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get workspace member: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.channelMemberRepo.Get(ctx, channel.ID, invitee.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "User is already a member")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get channel member: %v", err)
		return nil, errorx.Unknown
	}

	err = d.channelMemberRepo.Create(ctx, &entity.ChannelMember{
		ChannelID: channel.ID,
		UserID:    invitee.ID,
		Role:      entity.ChannelRoleMember,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create channel member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InviteChannelMemberResponse{}, nil
}

func (d *channelDomain) GetMembers(
	ctx context.Context, req *model.GetChannelMembersRequest,
) (*model.GetChannelMembersResponse, error) {
	channel, err := d.channelRepo.GetByID(ctx, req.ChannelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.channelVerifier.CanView(ctx, xcontext.RequestUserID(ctx), channel); err != nil {
		if errors.Is(err, common.ErrNotAMember) {
			return nil, errorx.New(errorx.PermissionDenied, "You cannot access this channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify channel access: %v", err)
		return nil, errorx.Unknown
	}

	members, err := d.channelMemberRepo.GetListByChannelID(ctx, channel.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get channel members: %v", err)
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

	resp := &model.GetChannelMembersResponse{Members: []model.ChannelMember{}}
	for _, member := range members {
		user, ok := userMap[member.UserID]
		if !ok {
			continue
		}

		resp.Members = append(resp.Members, model.ChannelMember{
			User:              model.ConvertUser(&user),
			Role:              string(member.Role),
			LastReadMessageID: member.LastReadMessageID,
		})
	}

	return resp, nil
}

func (d *channelDomain) GetMyRole(
	ctx context.Context, req *model.GetMyChannelRoleRequest,
) (*model.GetMyChannelRoleResponse, error) {
	member, err := d.channelMemberRepo.Get(ctx, req.ChannelID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotAMember, "You are not a member of this channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyChannelRoleResponse{Role: string(member.Role)}, nil
}
