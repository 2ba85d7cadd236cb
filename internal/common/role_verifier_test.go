package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/testutil"
)

func Test_WorkspaceRoleVerifier(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	verifier := NewWorkspaceRoleVerifier(repository.NewWorkspaceMemberRepository())

	// Any membership passes with no required roles.
	require.NoError(t, verifier.Verify(ctx, testutil.Workspace1.ID, testutil.User2.ID))
	require.ErrorIs(t,
		verifier.Verify(ctx, testutil.Workspace1.ID, "stranger"), ErrNotAMember)

	// Only the owner and admins can manage the workspace.
	require.NoError(t, verifier.CanManageWorkspace(ctx, testutil.Workspace1.ID, testutil.User1.ID))
	require.ErrorIs(t,
		verifier.CanManageWorkspace(ctx, testutil.Workspace1.ID, testutil.User2.ID), ErrForbidden)
	require.ErrorIs(t,
		verifier.CanManageWorkspace(ctx, testutil.Workspace1.ID, "stranger"), ErrNotAMember)

	require.NoError(t, verifier.Verify(
		ctx, testutil.Workspace1.ID, testutil.User2.ID, entity.WorkspaceRoleMember))
}

func Test_ChannelAccessVerifier_CanView(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	verifier := NewChannelAccessVerifier(
		repository.NewWorkspaceMemberRepository(),
		repository.NewChannelMemberRepository(),
	)

	// Public channels are visible to every workspace member, even ones who
	// never joined the channel.
	publicChannel := testutil.PublicChannel
	require.NoError(t, verifier.CanView(ctx, testutil.User3.ID, &publicChannel))
	require.ErrorIs(t, verifier.CanView(ctx, "stranger", &publicChannel), ErrNotAMember)

	// Private channels require an explicit channel membership.
	privateChannel := testutil.PrivateChannel
	require.NoError(t, verifier.CanView(ctx, testutil.User1.ID, &privateChannel))
	require.ErrorIs(t, verifier.CanView(ctx, testutil.User3.ID, &privateChannel), ErrNotAMember)
}

func Test_ChannelAccessVerifier_CanPost(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	verifier := NewChannelAccessVerifier(
		repository.NewWorkspaceMemberRepository(),
		repository.NewChannelMemberRepository(),
	)

	// Posting needs channel membership; viewing alone is not enough.
	publicChannel := testutil.PublicChannel
	require.NoError(t, verifier.CanPost(ctx, testutil.User2.ID, &publicChannel))
	require.ErrorIs(t, verifier.CanPost(ctx, testutil.User3.ID, &publicChannel), ErrNotAMember)
}

func Test_ChannelAccessVerifier_CanManageMembers(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	verifier := NewChannelAccessVerifier(
		repository.NewWorkspaceMemberRepository(),
		repository.NewChannelMemberRepository(),
	)

	require.NoError(t, verifier.CanManageMembers(ctx, testutil.User1.ID, testutil.PublicChannel.ID))
	require.ErrorIs(t,
		verifier.CanManageMembers(ctx, testutil.User2.ID, testutil.PublicChannel.ID), ErrForbidden)
	require.ErrorIs(t,
		verifier.CanManageMembers(ctx, testutil.User3.ID, testutil.PublicChannel.ID), ErrNotAMember)
}
