package common

import (
	"context"
	"errors"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/repository"
)

// Denial reasons. Verifiers only ever report a denial; callers translate
// these into the client-visible error taxonomy.
var (
	ErrNotAMember = errors.New("user is not a member")
	ErrForbidden  = errors.New("user role has no permission")
)

// WorkspaceRoleVerifier answers role questions at the workspace level.
type WorkspaceRoleVerifier struct {
	workspaceMemberRepo repository.WorkspaceMemberRepository
}

func NewWorkspaceRoleVerifier(
	workspaceMemberRepo repository.WorkspaceMemberRepository,
) *WorkspaceRoleVerifier {
	return &WorkspaceRoleVerifier{workspaceMemberRepo: workspaceMemberRepo}
}

// Verify reports whether the user holds any of the required roles in the
// workspace. With no required roles, any membership passes.
func (verifier *WorkspaceRoleVerifier) Verify(
	ctx context.Context, workspaceID, userID string, requiredRoles ...entity.WorkspaceRole,
) error {
	member, err := verifier.workspaceMemberRepo.Get(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return err
	}

	if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, member.Role) {
		return ErrForbidden
	}

	return nil
}

// CanManageWorkspace is the invite-members permission.
func (verifier *WorkspaceRoleVerifier) CanManageWorkspace(
	ctx context.Context, workspaceID, userID string,
) error {
	return verifier.Verify(ctx, workspaceID, userID,
		entity.WorkspaceRoleOwner, entity.WorkspaceRoleAdmin)
}

// ChannelAccessVerifier decides who may see, post to, and manage a channel.
// It is read-only: every method either passes or reports a denial.
type ChannelAccessVerifier struct {
	workspaceMemberRepo repository.WorkspaceMemberRepository
	channelMemberRepo   repository.ChannelMemberRepository
}

func NewChannelAccessVerifier(
	workspaceMemberRepo repository.WorkspaceMemberRepository,
	channelMemberRepo repository.ChannelMemberRepository,
) *ChannelAccessVerifier {
	return &ChannelAccessVerifier{
		workspaceMemberRepo: workspaceMemberRepo,
		channelMemberRepo:   channelMemberRepo,
	}
}

// CanView passes for any workspace member on a public channel, and only for
// explicit channel members on a private one.
func (verifier *ChannelAccessVerifier) CanView(
	ctx context.Context, userID string, channel *entity.Channel,
) error {
	if channel.Visibility == entity.ChannelVisibilityPublic {
		_, err := verifier.workspaceMemberRepo.Get(ctx, channel.WorkspaceID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAMember
			}
			return err
		}

		return nil
	}

	_, err := verifier.channelMemberRepo.Get(ctx, channel.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return err
	}

	return nil
}

// CanPost requires an explicit channel membership on top of CanView. Viewing
// a public channel does not grant posting; only the creator joins a channel
// implicitly, at creation time.
func (verifier *ChannelAccessVerifier) CanPost(
	ctx context.Context, userID string, channel *entity.Channel,
) error {
	if err := verifier.CanView(ctx, userID, channel); err != nil {
		return err
	}

	_, err := verifier.channelMemberRepo.Get(ctx, channel.ID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return err
	}

	return nil
}

// CanManageMembers requires the channel owner role.
func (verifier *ChannelAccessVerifier) CanManageMembers(
	ctx context.Context, userID string, channelID int64,
) error {
	member, err := verifier.channelMemberRepo.Get(ctx, channelID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return err
	}

	if member.Role != entity.ChannelRoleOwner {
		return ErrForbidden
	}

	return nil
}
