package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/testutil"
)

func newTestChannelDomain() *channelDomain {
	return NewChannelDomain(
		repository.NewChannelRepository(),
		repository.NewChannelMemberRepository(),
		repository.NewWorkspaceRepository(),
		repository.NewWorkspaceMemberRepository(),
		repository.NewUserRepository(),
	)
}

func Test_channelDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	channelDomain := newTestChannelDomain()

	// Only workspace members can create channels.
	ctxStranger := testutil.MockContextWithUserID(ctx, "stranger")
	_, err := channelDomain.Create(ctxStranger, &model.CreateChannelRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Name:        "random",
		Visibility:  "public",
	})
	require.Error(t, err)

	// An invalid visibility is rejected.
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = channelDomain.Create(ctxUser2, &model.CreateChannelRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Name:        "random",
		Visibility:  "hidden",
	})
	require.Error(t, err)

	// The creator becomes the channel owner.
	resp, err := channelDomain.Create(ctxUser2, &model.CreateChannelRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Name:        "random",
		Visibility:  "public",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.Channel.ID)

	roleResp, err := channelDomain.GetMyRole(ctxUser2, &model.GetMyChannelRoleRequest{
		ChannelID: resp.Channel.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.ChannelRoleOwner), roleResp.Role)
}

func Test_channelDomain_GetList_hidesPrivateChannels(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	channelDomain := newTestChannelDomain()

	// User1 belongs to the private channel and sees both.
	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := channelDomain.GetList(ctxUser1, &model.GetWorkspaceChannelsRequest{
		WorkspaceID: testutil.Workspace1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Channels, 2)

	// User2 does not; only the public channel shows up.
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	resp, err = channelDomain.GetList(ctxUser2, &model.GetWorkspaceChannelsRequest{
		WorkspaceID: testutil.Workspace1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Channels, 1)
	require.Equal(t, testutil.PublicChannel.ID, resp.Channels[0].ID)

	// Outsiders see nothing at all.
	ctxStranger := testutil.MockContextWithUserID(ctx, "stranger")
	_, err = channelDomain.GetList(ctxStranger, &model.GetWorkspaceChannelsRequest{
		WorkspaceID: testutil.Workspace1.ID,
	})
	require.Error(t, err)
}

func Test_channelDomain_InviteMember(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	channelDomain := newTestChannelDomain()

	// A channel member without the owner role cannot invite.
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err := channelDomain.InviteMember(ctxUser2, &model.InviteChannelMemberRequest{
		ChannelID: testutil.PublicChannel.ID,
		Email:     testutil.User3.Email,
	})
	require.Error(t, err)
	require.Equal(t, "Only the channel owner can invite", err.Error())

	// The invitee must already belong to the workspace.
	authDomain := NewAuthDomain(repository.NewUserRepository())
	_, err = authDomain.Signup(ctx, &model.SignupRequest{
		Email:    "outsider@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err = channelDomain.InviteMember(ctxUser1, &model.InviteChannelMemberRequest{
		ChannelID: testutil.PrivateChannel.ID,
		Email:     "outsider@example.com",
	})
	require.Error(t, err)
	require.Equal(t, "User is not a member of the workspace", err.Error())

	// The owner invites user3 into the private channel.
	_, err = channelDomain.InviteMember(ctxUser1, &model.InviteChannelMemberRequest{
		ChannelID: testutil.PrivateChannel.ID,
		Email:     testutil.User3.Email,
	})
	require.NoError(t, err)

	// Inviting twice conflicts.
	_, err = channelDomain.InviteMember(ctxUser1, &model.InviteChannelMemberRequest{
		ChannelID: testutil.PrivateChannel.ID,
		Email:     testutil.User3.Email,
	})
	require.Error(t, err)
	require.Equal(t, "User is already a member", err.Error())

	// The private channel is now visible to user3.
	ctxUser3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	resp, err := channelDomain.GetList(ctxUser3, &model.GetWorkspaceChannelsRequest{
		WorkspaceID: testutil.Workspace1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Channels, 2)

	membersResp, err := channelDomain.GetMembers(ctxUser3, &model.GetChannelMembersRequest{
		ChannelID: testutil.PrivateChannel.ID,
	})
	require.NoError(t, err)
	require.Len(t, membersResp.Members, 2)
}
