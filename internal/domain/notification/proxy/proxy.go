package proxy

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pulsespace/backend/internal/common"
	"github.com/pulsespace/backend/internal/domain"
	"github.com/pulsespace/backend/internal/domain/notification/directive"
	"github.com/pulsespace/backend/internal/domain/notification/event"
	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/errorx"
	"github.com/pulsespace/backend/pkg/ws"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type ProxyServer struct {
	router            *Router
	messageDomain     domain.MessageDomain
	channelRepo       repository.ChannelRepository
	channelMemberRepo repository.ChannelMemberRepository
	presenceRepo      repository.PresenceRepository
	channelVerifier   *common.ChannelAccessVerifier
}

func NewProxyServer(
	router *Router,
	messageDomain domain.MessageDomain,
	channelRepo repository.ChannelRepository,
	channelMemberRepo repository.ChannelMemberRepository,
	workspaceMemberRepo repository.WorkspaceMemberRepository,
	presenceRepo repository.PresenceRepository,
) *ProxyServer {
	return &ProxyServer{
		router:            router,
		messageDomain:     messageDomain,
		channelRepo:       channelRepo,
		channelMemberRepo: channelMemberRepo,
		presenceRepo:      presenceRepo,
		channelVerifier:   common.NewChannelAccessVerifier(workspaceMemberRepo, channelMemberRepo),
	}
}

// ServeProxy runs the event loop of one authenticated connection. It sends
// the ready event, then multiplexes hub events out and client directives in
// until either side closes.
func (server *ProxyServer) ServeProxy(ctx context.Context, client *ws.Client) error {
	userID := xcontext.RequestUserID(ctx)

	session := NewSession()
	defer session.LeaveAllHubs()

	presenceTTL := xcontext.Configs(ctx).Chat.PresenceTTL
	if err := server.presenceRepo.SetOnline(ctx, userID, presenceTTL); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot mark user %s online: %v", userID, err)
	}
	defer func() {
		if err := server.presenceRepo.SetOffline(ctx, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot mark user %s offline: %v", userID, err)
		}
	}()

	myMembers, err := server.channelMemberRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get channel members: %v", err)
		return errorx.Unknown
	}

	channelIDs := []int64{}
	memberMap := map[int64]entity.ChannelMember{}
	for _, member := range myMembers {
		channelIDs = append(channelIDs, member.ChannelID)
		memberMap[member.ChannelID] = member
	}

	channels, err := server.channelRepo.GetByIDs(ctx, channelIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get channels: %v", err)
		return errorx.Unknown
	}

	states := []event.ChannelMemberState{}
	for _, channel := range channels {
		states = append(states, event.ChannelMemberState{
			Channel:           model.ConvertChannel(&channel),
			LastReadMessageID: memberMap[channel.ID].LastReadMessageID,
		})
	}

	session.C <- event.New(&event.ReadyEvent{ChannelMembers: states}, event.Metadata{})

	var seq int64
	for {
		select {
		case ev, ok := <-session.C:
			if !ok {
				return errorx.New(errorx.Unavailable, "Session is closed")
			}

			b, err := json.Marshal(event.Format(ev, seq))
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot marshal event: %v", err)
				continue
			}
			seq++

			if err := client.Write(b); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot send event to client: %v", err)
				return errorx.Unknown
			}

		case req, ok := <-client.R:
			if !ok {
				return nil
			}

			var d directive.ClientDirective
			if err := json.Unmarshal(req, &d); err != nil {
				server.pushError(session, errorx.New(errorx.BadRequest, "Invalid directive"))
				continue
			}

			server.handleDirective(ctx, session, userID, d)
		}
	}
}

func (server *ProxyServer) handleDirective(
	ctx context.Context, session *Session, userID string, d directive.ClientDirective,
) {
	switch d.Op {
	case directive.PingOp:
		presenceTTL := xcontext.Configs(ctx).Chat.PresenceTTL
		if err := server.presenceRepo.SetOnline(ctx, userID, presenceTTL); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot refresh presence of %s: %v", userID, err)
		}

	case directive.SubscribeOp:
		var sub directive.SubscribeDirective
		if err := json.Unmarshal(d.Data, &sub); err != nil {
			server.pushError(session, errorx.New(errorx.BadRequest, "Invalid subscribe directive"))
			return
		}

		channel, err := server.channelRepo.GetByID(ctx, sub.ChannelID)
		if err != nil {
			server.pushError(session, errorx.New(errorx.NotFound, "Not found channel"))
			return
		}

		if err := server.channelVerifier.CanView(ctx, userID, channel); err != nil {
			if errors.Is(err, common.ErrNotAMember) || errors.Is(err, common.ErrForbidden) {
				server.pushError(session, errorx.New(
					errorx.PermissionDenied, "You cannot access this channel"))
			} else {
				xcontext.Logger(ctx).Errorf("Cannot verify channel access: %v", err)
				server.pushError(session, errorx.Unknown)
			}
			return
		}

		session.JoinHub(server.router.GetHub(sub.ChannelID))
		server.push(session, event.New(&event.SubscribedEvent{ChannelID: sub.ChannelID}, event.Metadata{}))

	case directive.UnsubscribeOp:
		var unsub directive.UnsubscribeDirective
		if err := json.Unmarshal(d.Data, &unsub); err != nil {
			server.pushError(session, errorx.New(errorx.BadRequest, "Invalid unsubscribe directive"))
			return
		}

		session.LeaveHub(unsub.ChannelID)
		server.push(session, event.New(&event.UnsubscribedEvent{ChannelID: unsub.ChannelID}, event.Metadata{}))

	case directive.SendMessageOp:
		var send directive.SendMessageDirective
		if err := json.Unmarshal(d.Data, &send); err != nil {
			server.pushError(session, errorx.New(errorx.BadRequest, "Invalid send_message directive"))
			return
		}

		_, err := server.messageDomain.Send(ctx, &model.SendMessageRequest{
			ChannelID: send.ChannelID,
			Content:   send.Content,
			ReplyToID: send.ReplyToID,
		})
		if err != nil {
			server.pushError(session, err)
		}

	case directive.MarkReadOp:
		var markRead directive.MarkReadDirective
		if err := json.Unmarshal(d.Data, &markRead); err != nil {
			server.pushError(session, errorx.New(errorx.BadRequest, "Invalid mark_read directive"))
			return
		}

		_, err := server.messageDomain.MarkRead(ctx, &model.MarkReadRequest{
			ChannelID: markRead.ChannelID,
			MessageID: markRead.MessageID,
		})
		if err != nil {
			server.pushError(session, err)
		}

	default:
		server.pushError(session, errorx.New(errorx.BadRequest, "Unknown directive op %s", d.Op))
	}
}

// push queues an event on the session without blocking. The directive handler
// runs on the same goroutine that drains session.C, so a blocking send would
// deadlock the connection once hubs fill the buffer; on a saturated session
// the ack is dropped like any other missed event.
func (server *ProxyServer) push(session *Session, ev *event.EventRequest) {
	select {
	case session.C <- ev:
	default:
	}
}

func (server *ProxyServer) pushError(session *Session, err error) {
	errx := errorx.Error{}
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	server.push(session, event.New(&event.ErrorEvent{
		Code:    int64(errx.Code),
		Message: errx.Message,
	}, event.Metadata{}))
}
