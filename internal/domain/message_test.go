package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/pulsespace/backend/internal/domain/notification/event"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/testutil"
)

func newTestMessageDomain(bus *testutil.MockNotificationBus) *messageDomain {
	return NewMessageDomain(
		repository.NewMessageRepository(),
		repository.NewChannelRepository(),
		repository.NewChannelMemberRepository(),
		repository.NewWorkspaceMemberRepository(),
		bus,
	)
}

func Test_messageDomain_Send_permissions(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	messageDomain := newTestMessageDomain(testutil.NewMockNotificationBus())

	// User3 is not in the private channel and cannot post there.
	ctxUser3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	_, err := messageDomain.Send(ctxUser3, &model.SendMessageRequest{
		ChannelID: testutil.PrivateChannel.ID,
		Content:   "hello",
	})
	require.Error(t, err)

	// Viewing a public channel is not posting: user3 can read the public
	// channel but is not a member of it.
	_, err = messageDomain.GetList(ctxUser3, &model.GetMessagesRequest{
		ChannelID: testutil.PublicChannel.ID,
	})
	require.NoError(t, err)

	_, err = messageDomain.Send(ctxUser3, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "hello",
	})
	require.Error(t, err)

	// A channel member posts successfully.
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	resp, err := messageDomain.Send(ctxUser2, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "hello",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.Message.ID)
	require.Equal(t, testutil.User2.ID, resp.Message.SenderID)

	// Empty content is rejected.
	_, err = messageDomain.Send(ctxUser2, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
	})
	require.Error(t, err)
}

func Test_messageDomain_Lifecycle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	bus := testutil.NewMockNotificationBus()
	messageDomain := newTestMessageDomain(bus)

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)

	sendResp, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "first draft",
	})
	require.NoError(t, err)
	messageID := sendResp.Message.ID

	// Only the sender can edit.
	_, err = messageDomain.Update(ctxUser2, &model.UpdateMessageRequest{
		MessageID: messageID,
		Content:   "hijacked",
	})
	require.Error(t, err)
	require.Equal(t, "Only the sender can edit a message", err.Error())

	updateResp, err := messageDomain.Update(ctxUser1, &model.UpdateMessageRequest{
		MessageID: messageID,
		Content:   "second draft",
	})
	require.NoError(t, err)
	require.Equal(t, "second draft", updateResp.Message.Content)
	require.NotEmpty(t, updateResp.Message.EditedAt)

	// Only the sender can delete.
	_, err = messageDomain.Delete(ctxUser2, &model.DeleteMessageRequest{MessageID: messageID})
	require.Error(t, err)

	_, err = messageDomain.Delete(ctxUser1, &model.DeleteMessageRequest{MessageID: messageID})
	require.NoError(t, err)

	// Deleting again succeeds without effect; editing a deleted message
	// fails.
	_, err = messageDomain.Delete(ctxUser1, &model.DeleteMessageRequest{MessageID: messageID})
	require.NoError(t, err)

	_, err = messageDomain.Update(ctxUser1, &model.UpdateMessageRequest{
		MessageID: messageID,
		Content:   "third draft",
	})
	require.Error(t, err)

	// History keeps a contentless tombstone.
	listResp, err := messageDomain.GetList(ctxUser1, &model.GetMessagesRequest{
		ChannelID: testutil.PublicChannel.ID,
	})
	require.NoError(t, err)
	require.Len(t, listResp.Messages, 1)
	require.True(t, listResp.Messages[0].IsDeleted)
	require.Empty(t, listResp.Messages[0].Content)

	// Exactly one event per lifecycle step, in order.
	events := bus.Events()
	require.Len(t, events, 3)
	require.Equal(t, (&event.MessageCreatedEvent{}).Op(), events[0].Op)
	require.Equal(t, (&event.MessageUpdatedEvent{}).Op(), events[1].Op)
	require.Equal(t, (&event.MessageDeletedEvent{}).Op(), events[2].Op)
	for _, ev := range events {
		require.Equal(t, testutil.PublicChannel.ID, ev.Metadata.To)
	}
}

func Test_messageDomain_DeleteStaysTerminalUnderRacingEdit(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	bus := testutil.NewMockNotificationBus()
	messageDomain := newTestMessageDomain(bus)
	messageRepo := repository.NewMessageRepository()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	sendResp, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "short-lived",
	})
	require.NoError(t, err)
	messageID := sendResp.Message.ID

	_, err = messageDomain.Delete(ctxUser1, &model.DeleteMessageRequest{MessageID: messageID})
	require.NoError(t, err)

	// An edit that slipped past the domain's pre-check must still bounce off
	// the storage guard and leave the tombstone untouched.
	err = messageRepo.UpdateContent(ctx, messageID, "resurrected", time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	message, err := messageRepo.GetByID(ctx, messageID)
	require.NoError(t, err)
	require.True(t, message.IsDeleted())
	require.Empty(t, message.Content)

	// Created then deleted; no update broadcast.
	events := bus.Events()
	require.Len(t, events, 2)
	require.Equal(t, (&event.MessageDeletedEvent{}).Op(), events[1].Op)
}

func Test_messageDomain_GetList_pagination(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	messageDomain := newTestMessageDomain(testutil.NewMockNotificationBus())

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	ids := []int64{}
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		resp, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
			ChannelID: testutil.PublicChannel.ID,
			Content:   content,
		})
		require.NoError(t, err)
		ids = append(ids, resp.Message.ID)
	}

	// The newest page comes first.
	page, err := messageDomain.GetList(ctxUser1, &model.GetMessagesRequest{
		ChannelID: testutil.PublicChannel.ID,
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	require.Equal(t, ids[4], page.Messages[0].ID)
	require.Equal(t, ids[3], page.Messages[1].ID)

	// Paging backwards from the oldest seen message.
	page, err = messageDomain.GetList(ctxUser1, &model.GetMessagesRequest{
		ChannelID: testutil.PublicChannel.ID,
		Before:    ids[3],
		Limit:     2,
	})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	require.Equal(t, ids[2], page.Messages[0].ID)
	require.Equal(t, ids[1], page.Messages[1].ID)
}

func Test_messageDomain_Reply(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	messageDomain := newTestMessageDomain(testutil.NewMockNotificationBus())

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	first, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "root",
	})
	require.NoError(t, err)

	// A reply must reference a message in the same channel.
	_, err = messageDomain.Send(ctxUser1, &model.SendMessageRequest{
		ChannelID: testutil.PrivateChannel.ID,
		Content:   "cross-channel reply",
		ReplyToID: first.Message.ID,
	})
	require.Error(t, err)

	reply, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "reply",
		ReplyToID: first.Message.ID,
	})
	require.NoError(t, err)
	require.Equal(t, first.Message.ID, reply.Message.ReplyToID)
}

func Test_messageDomain_MarkRead_monotonic(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	messageDomain := newTestMessageDomain(testutil.NewMockNotificationBus())
	channelMemberRepo := repository.NewChannelMemberRepository()

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	first, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "one",
	})
	require.NoError(t, err)

	second, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
		ChannelID: testutil.PublicChannel.ID,
		Content:   "two",
	})
	require.NoError(t, err)

	// Non-members cannot mark.
	ctxUser3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	_, err = messageDomain.MarkRead(ctxUser3, &model.MarkReadRequest{
		ChannelID: testutil.PublicChannel.ID,
		MessageID: first.Message.ID,
	})
	require.Error(t, err)

	ctxUser2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = messageDomain.MarkRead(ctxUser2, &model.MarkReadRequest{
		ChannelID: testutil.PublicChannel.ID,
		MessageID: second.Message.ID,
	})
	require.NoError(t, err)

	member, err := channelMemberRepo.Get(ctx, testutil.PublicChannel.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, second.Message.ID, member.LastReadMessageID)

	// Marking an older message succeeds but never regresses the cursor.
	_, err = messageDomain.MarkRead(ctxUser2, &model.MarkReadRequest{
		ChannelID: testutil.PublicChannel.ID,
		MessageID: first.Message.ID,
	})
	require.NoError(t, err)

	member, err = channelMemberRepo.Get(ctx, testutil.PublicChannel.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, second.Message.ID, member.LastReadMessageID)

	// The marked message must live in the marked channel.
	_, err = messageDomain.MarkRead(ctxUser1, &model.MarkReadRequest{
		ChannelID: testutil.PrivateChannel.ID,
		MessageID: first.Message.ID,
	})
	require.Error(t, err)
}

func Test_messageDomain_lockChannel_returnsTheStoredMutex(t *testing.T) {
	messageDomain := newTestMessageDomain(testutil.NewMockNotificationBus())

	// Exclusion only holds if every caller locks the one mutex kept in the
	// map.
	first := messageDomain.lockChannel(9)
	first.Unlock()

	second := messageDomain.lockChannel(9)
	second.Unlock()

	require.Same(t, first, second)
}

func Test_messageDomain_ConcurrentSends_keepOrder(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)
	bus := testutil.NewMockNotificationBus()
	messageDomain := newTestMessageDomain(bus)

	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	eg := errgroup.Group{}
	for i := 0; i < 20; i++ {
		eg.Go(func() error {
			_, err := messageDomain.Send(ctxUser1, &model.SendMessageRequest{
				ChannelID: testutil.PublicChannel.ID,
				Content:   "concurrent",
			})
			return err
		})
	}
	require.NoError(t, eg.Wait())

	// Broadcast order must match id order: the per-channel critical section
	// spans id generation, persistence, and emit.
	events := bus.Events()
	require.Len(t, events, 20)

	var lastID int64
	for _, ev := range events {
		created, ok := ev.Data.(*event.MessageCreatedEvent)
		require.True(t, ok)
		require.Greater(t, created.ID, lastID)
		lastID = created.ID
	}
}
