package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type MessageFilter struct {
	ChannelID int64

	// Before restricts the page to messages with id < Before. Zero means the
	// newest page.
	Before int64
	Limit  int
}

type MessageRepository interface {
	Create(ctx context.Context, data *entity.Message) error
	GetByID(ctx context.Context, id int64) (*entity.Message, error)
	GetList(ctx context.Context, filter MessageFilter) ([]entity.Message, error)
	UpdateContent(ctx context.Context, id int64, content string, editedAt time.Time) error
	MarkDeleted(ctx context.Context, id int64, deletedAt time.Time) error
}

type messageRepository struct{}

func NewMessageRepository() *messageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(ctx context.Context, data *entity.Message) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*entity.Message, error) {
	var record entity.Message
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetList returns a newest-first page of the channel's messages, including
// tombstones of deleted ones.
func (r *messageRepository) GetList(
	ctx context.Context, filter MessageFilter,
) ([]entity.Message, error) {
	tx := xcontext.DB(ctx).
		Where("channel_id=?", filter.ChannelID).
		Order("id DESC").
		Limit(filter.Limit)

	if filter.Before > 0 {
		tx = tx.Where("id<?", filter.Before)
	}

	var records []entity.Message
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateContent edits a live message. The deleted_at guard keeps a delete
// terminal even when an edit races it; an edit that matches no row reports
// ErrRecordNotFound so the caller skips its broadcast.
func (r *messageRepository) UpdateContent(
	ctx context.Context, id int64, content string, editedAt time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Message{}).
		Where("id=? AND deleted_at IS NULL", id).
		Updates(map[string]any{"content": content, "edited_at": editedAt})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *messageRepository) MarkDeleted(ctx context.Context, id int64, deletedAt time.Time) error {
	return xcontext.DB(ctx).
		Model(&entity.Message{}).
		Where("id=? AND deleted_at IS NULL", id).
		Updates(map[string]any{"content": "", "deleted_at": deletedAt}).Error
}
