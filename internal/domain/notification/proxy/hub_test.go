package proxy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pulsespace/backend/internal/domain/notification/event"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/pkg/errorx"
)

func messageEvent(channelID, messageID int64) *event.EventRequest {
	return event.New(
		&event.MessageCreatedEvent{Message: model.Message{ID: messageID, ChannelID: channelID}},
		event.Metadata{To: channelID},
	)
}

func receiveOne(t *testing.T, session *Session) *event.EventRequest {
	t.Helper()

	select {
	case ev := <-session.C:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func requireNoEvent(t *testing.T, session *Session) {
	t.Helper()

	select {
	case ev := <-session.C:
		t.Fatalf("unexpected event %s", ev.Op)
	case <-time.After(50 * time.Millisecond):
	}
}

func Test_Router_GetHub_returnsTheStoredHub(t *testing.T) {
	router := NewRouter()

	// Every caller must get the hub that the map keeps, or the first
	// subscriber of a channel ends up registered in an orphan hub that no
	// broadcast ever reaches.
	hub := router.GetHub(42)
	require.Same(t, hub, router.GetHub(42))

	stored, ok := router.hubs.Load(42)
	require.True(t, ok)
	require.Same(t, hub, stored)

	session := NewSession()
	session.JoinHub(hub)
	require.NoError(t, router.Emit(context.Background(), messageEvent(42, 1)))
	require.EqualValues(t, 42, receiveOne(t, session).Metadata.To)
}

func Test_Hub_deliversOnlyWhileSubscribed(t *testing.T) {
	router := NewRouter()
	session := NewSession()

	// Nothing arrives before subscribing.
	require.NoError(t, router.Emit(context.Background(), messageEvent(1, 10)))
	requireNoEvent(t, session)

	session.JoinHub(router.GetHub(1))
	require.NoError(t, router.Emit(context.Background(), messageEvent(1, 11)))
	require.EqualValues(t, 1, receiveOne(t, session).Metadata.To)

	// Events for other channels never reach this session.
	require.NoError(t, router.Emit(context.Background(), messageEvent(2, 12)))
	requireNoEvent(t, session)

	// Nothing arrives after unsubscribing; unsubscribing twice is harmless.
	session.LeaveHub(1)
	session.LeaveHub(1)
	require.NoError(t, router.Emit(context.Background(), messageEvent(1, 13)))
	requireNoEvent(t, session)
}

func Test_Hub_keepsOrderPerChannel(t *testing.T) {
	router := NewRouter()
	session := NewSession()
	session.JoinHub(router.GetHub(7))

	for i := int64(1); i <= 10; i++ {
		require.NoError(t, router.Emit(context.Background(), messageEvent(7, i)))
	}

	for i := int64(1); i <= 10; i++ {
		ev := receiveOne(t, session)
		created, ok := ev.Data.(*event.MessageCreatedEvent)
		require.True(t, ok)
		require.Equal(t, i, created.ID)
	}
}

func Test_Hub_slowConsumerMissesInsteadOfBlocking(t *testing.T) {
	router := NewRouter()

	slow := NewSession()
	fast := NewSession()
	slow.JoinHub(router.GetHub(3))
	fast.JoinHub(router.GetHub(3))

	// Push far more events than the slow session's queue holds, draining
	// only the fast one. The fan-out must never stall on the slow session.
	total := cap(slow.C) + cap(router.GetHub(3).c) + 16
	for i := 0; i < total; i++ {
		require.NoError(t, router.Emit(context.Background(), messageEvent(3, int64(i+1))))
		receiveOne(t, fast)
	}

	received := 0
	for {
		select {
		case <-slow.C:
			received++
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}

	require.Greater(t, received, 0)
	require.Less(t, received, total)
}

func Test_ProxyServer_pushNeverBlocksOnSaturatedSession(t *testing.T) {
	server := &ProxyServer{}
	session := NewSession()

	for i := 0; i < cap(session.C); i++ {
		session.C <- messageEvent(1, int64(i))
	}

	// The serve loop is the only drainer of session.C; a blocking send here
	// would wedge the connection for good.
	done := make(chan struct{})
	go func() {
		server.push(session, messageEvent(1, 100))
		server.pushError(session, errorx.Unknown)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push blocked on a full session queue")
	}
}

func Test_Session_LeaveAllHubs(t *testing.T) {
	router := NewRouter()
	session := NewSession()
	session.JoinHub(router.GetHub(1))
	session.JoinHub(router.GetHub(2))

	session.LeaveAllHubs()

	require.True(t, router.GetHub(1).IsEmpty())
	require.True(t, router.GetHub(2).IsEmpty())

	// The session channel is closed once every hub forgot the session.
	_, ok := <-session.C
	require.False(t, ok)
}
