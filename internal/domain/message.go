package domain

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"

	"github.com/pulsespace/backend/internal/client"
	"github.com/pulsespace/backend/internal/common"
	"github.com/pulsespace/backend/internal/domain/notification/event"
	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/errorx"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type MessageDomain interface {
	GetList(ctx context.Context, req *model.GetMessagesRequest) (*model.GetMessagesResponse, error)
	Send(ctx context.Context, req *model.SendMessageRequest) (*model.SendMessageResponse, error)
	Update(ctx context.Context, req *model.UpdateMessageRequest) (*model.UpdateMessageResponse, error)
	Delete(ctx context.Context, req *model.DeleteMessageRequest) (*model.DeleteMessageResponse, error)
	MarkRead(ctx context.Context, req *model.MarkReadRequest) (*model.MarkReadResponse, error)
}

type messageDomain struct {
	messageRepo       repository.MessageRepository
	channelRepo       repository.ChannelRepository
	channelMemberRepo repository.ChannelMemberRepository
	notificationBus   client.NotificationBusCaller
	channelVerifier   *common.ChannelAccessVerifier

	// channelLocks serializes the id-generate, persist, broadcast section per
	// channel, so broadcast order always matches id order within a channel.
	channelLocks *xsync.MapOf[int64, *sync.Mutex]
}

func NewMessageDomain(
	messageRepo repository.MessageRepository,
	channelRepo repository.ChannelRepository,
	channelMemberRepo repository.ChannelMemberRepository,
	workspaceMemberRepo repository.WorkspaceMemberRepository,
	notificationBus client.NotificationBusCaller,
) *messageDomain {
	return &messageDomain{
		messageRepo:       messageRepo,
		channelRepo:       channelRepo,
		channelMemberRepo: channelMemberRepo,
		notificationBus:   notificationBus,
		channelVerifier:   common.NewChannelAccessVerifier(workspaceMemberRepo, channelMemberRepo),
		channelLocks:      xsync.NewIntegerMapOf[int64, *sync.Mutex](),
	}
}

func (d *messageDomain) lockChannel(channelID int64) *sync.Mutex {
	// LoadOrStore rather than LoadOrCompute: the latter may store a different
	// mutex than it returns, which would void the mutual exclusion.
	mutex, _ := d.channelLocks.LoadOrStore(channelID, &sync.Mutex{})

	mutex.Lock()
	return mutex
}

func (d *messageDomain) getChannel(ctx context.Context, channelID int64) (*entity.Channel, error) {
	channel, err := d.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return nil, errorx.Unknown
	}

	return channel, nil
}

// GetList returns a newest-first page of channel history. Deleted messages
// appear as tombstones so clients can render the gap.
func (d *messageDomain) GetList(
	ctx context.Context, req *model.GetMessagesRequest,
) (*model.GetMessagesResponse, error) {
	channel, err := d.getChannel(ctx, req.ChannelID)
	if err != nil {
		return nil, err
	}

	if err := d.channelVerifier.CanView(ctx, xcontext.RequestUserID(ctx), channel); err != nil {
		if errors.Is(err, common.ErrNotAMember) {
			return nil, errorx.New(errorx.PermissionDenied, "You cannot access this channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify channel access: %v", err)
		return nil, errorx.Unknown
	}

	limit := req.Limit
	maxLimit := xcontext.Configs(ctx).Chat.MessagePageLimit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	messages, err := d.messageRepo.GetList(ctx, repository.MessageFilter{
		ChannelID: req.ChannelID,
		Before:    req.Before,
		Limit:     limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get messages: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMessagesResponse{Messages: []model.Message{}}
	for i := range messages {
		resp.Messages = append(resp.Messages, model.ConvertMessage(&messages[i]))
	}

	return resp, nil
}

// Send persists a message and broadcasts it to the channel's subscribers.
func (d *messageDomain) Send(
	ctx context.Context, req *model.SendMessageRequest,
) (*model.SendMessageResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a non-empty content")
	}

	channel, err := d.getChannel(ctx, req.ChannelID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.channelVerifier.CanPost(ctx, userID, channel); err != nil {
		if errors.Is(err, common.ErrNotAMember) {
			return nil, errorx.New(errorx.PermissionDenied, "You cannot post to this channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify channel access: %v", err)
		return nil, errorx.Unknown
	}

	if req.ReplyToID != 0 {
		replied, err := d.messageRepo.GetByID(ctx, req.ReplyToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found replied message")
			}

			xcontext.Logger(ctx).Errorf("Cannot get replied message: %v", err)
			return nil, errorx.Unknown
		}

		if replied.ChannelID != req.ChannelID {
			return nil, errorx.New(errorx.BadRequest, "Replied message is in another channel")
		}
	}

	mutex := d.lockChannel(req.ChannelID)
	defer mutex.Unlock()

	message := &entity.Message{
		ID:        xcontext.SnowFlake(ctx).Generate().Int64(),
		ChannelID: req.ChannelID,
		SenderID:  userID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if req.ReplyToID != 0 {
		message.ReplyToID = sql.NullInt64{Int64: req.ReplyToID, Valid: true}
	}

	if err := d.messageRepo.Create(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create message: %v", err)
		return nil, errorx.Unknown
	}

	converted := model.ConvertMessage(message)
	err = d.notificationBus.Emit(ctx, event.New(
		&event.MessageCreatedEvent{Message: converted},
		event.Metadata{To: req.ChannelID},
	))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot emit message created event: %v", err)
	}

	return &model.SendMessageResponse{Message: converted}, nil
}

// Update edits a message's content. Only the sender can edit, and a deleted
// message stays deleted.
func (d *messageDomain) Update(
	ctx context.Context, req *model.UpdateMessageRequest,
) (*model.UpdateMessageResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a non-empty content")
	}

	message, err := d.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found message")
		}

		xcontext.Logger(ctx).Errorf("Cannot get message: %v", err)
		return nil, errorx.Unknown
	}

	if message.SenderID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the sender can edit a message")
	}

	if message.IsDeleted() {
		return nil, errorx.New(errorx.BadRequest, "Cannot edit a deleted message")
	}

	mutex := d.lockChannel(message.ChannelID)
	defer mutex.Unlock()

	editedAt := time.Now()
	if err := d.messageRepo.UpdateContent(ctx, message.ID, req.Content, editedAt); err != nil {
		// A delete that won the race leaves no editable row; never emit an
		// update after the delete.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Cannot edit a deleted message")
		}

		xcontext.Logger(ctx).Errorf("Cannot update message: %v", err)
		return nil, errorx.Unknown
	}

	message.Content = req.Content
	message.EditedAt = sql.NullTime{Time: editedAt, Valid: true}

	converted := model.ConvertMessage(message)
	err = d.notificationBus.Emit(ctx, event.New(
		&event.MessageUpdatedEvent{Message: converted},
		event.Metadata{To: message.ChannelID},
	))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot emit message updated event: %v", err)
	}

	return &model.UpdateMessageResponse{Message: converted}, nil
}

// Delete tombstones a message. Deleting an already deleted message succeeds
// without a second broadcast.
func (d *messageDomain) Delete(
	ctx context.Context, req *model.DeleteMessageRequest,
) (*model.DeleteMessageResponse, error) {
	message, err := d.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found message")
		}

		xcontext.Logger(ctx).Errorf("Cannot get message: %v", err)
		return nil, errorx.Unknown
	}

	if message.SenderID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the sender can delete a message")
	}

	if message.IsDeleted() {
		return &model.DeleteMessageResponse{}, nil
	}

	mutex := d.lockChannel(message.ChannelID)
	defer mutex.Unlock()

	if err := d.messageRepo.MarkDeleted(ctx, message.ID, time.Now()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete message: %v", err)
		return nil, errorx.Unknown
	}

	err = d.notificationBus.Emit(ctx, event.New(
		&event.MessageDeletedEvent{MessageID: message.ID, ChannelID: message.ChannelID},
		event.Metadata{To: message.ChannelID},
	))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot emit message deleted event: %v", err)
	}

	return &model.DeleteMessageResponse{}, nil
}

// MarkRead advances the caller's read cursor in a channel. A cursor never
// moves backwards; a stale mark is accepted and ignored.
func (d *messageDomain) MarkRead(
	ctx context.Context, req *model.MarkReadRequest,
) (*model.MarkReadResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if _, err := d.channelMemberRepo.Get(ctx, req.ChannelID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PermissionDenied, "You are not a member of this channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel member: %v", err)
		return nil, errorx.Unknown
	}

	message, err := d.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found message")
		}

		xcontext.Logger(ctx).Errorf("Cannot get message: %v", err)
		return nil, errorx.Unknown
	}

	if message.ChannelID != req.ChannelID {
		return nil, errorx.New(errorx.BadRequest, "Message is in another channel")
	}

	if err := d.channelMemberRepo.AdvanceLastRead(ctx, req.ChannelID, userID, req.MessageID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot advance read cursor: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkReadResponse{}, nil
}
