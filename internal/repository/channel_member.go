package repository

import (
	"context"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type ChannelMemberRepository interface {
	Create(ctx context.Context, data *entity.ChannelMember) error
	Get(ctx context.Context, channelID int64, userID string) (*entity.ChannelMember, error)
	GetListByChannelID(ctx context.Context, channelID int64) ([]entity.ChannelMember, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.ChannelMember, error)
	AdvanceLastRead(ctx context.Context, channelID int64, userID string, messageID int64) error
}

type channelMemberRepository struct{}

func NewChannelMemberRepository() *channelMemberRepository {
	return &channelMemberRepository{}
}

func (r *channelMemberRepository) Create(ctx context.Context, data *entity.ChannelMember) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *channelMemberRepository) Get(
	ctx context.Context, channelID int64, userID string,
) (*entity.ChannelMember, error) {
	var record entity.ChannelMember
	err := xcontext.DB(ctx).
		Where("channel_id=? AND user_id=?", channelID, userID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *channelMemberRepository) GetListByChannelID(
	ctx context.Context, channelID int64,
) ([]entity.ChannelMember, error) {
	var records []entity.ChannelMember
	err := xcontext.DB(ctx).
		Where("channel_id=?", channelID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *channelMemberRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.ChannelMember, error) {
	var records []entity.ChannelMember
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// AdvanceLastRead moves the member's read cursor forward. The guard in the
// WHERE clause keeps the cursor monotonic under concurrent or out-of-order
// receipts; a stale advance matches no row and is a silent no-op.
func (r *channelMemberRepository) AdvanceLastRead(
	ctx context.Context, channelID int64, userID string, messageID int64,
) error {
	return xcontext.DB(ctx).
		Model(&entity.ChannelMember{}).
		Where("channel_id=? AND user_id=? AND last_read_message_id<?", channelID, userID, messageID).
		Update("last_read_message_id", messageID).Error
}
