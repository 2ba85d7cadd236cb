package repository

import (
	"context"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type ChannelRepository interface {
	Create(ctx context.Context, data *entity.Channel) error
	GetByID(ctx context.Context, id int64) (*entity.Channel, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Channel, error)
	GetListByWorkspaceID(ctx context.Context, workspaceID string) ([]entity.Channel, error)
}

type channelRepository struct{}

func NewChannelRepository() *channelRepository {
	return &channelRepository{}
}

func (r *channelRepository) Create(ctx context.Context, data *entity.Channel) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *channelRepository) GetByID(ctx context.Context, id int64) (*entity.Channel, error) {
	var record entity.Channel
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *channelRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Channel, error) {
	var records []entity.Channel
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *channelRepository) GetListByWorkspaceID(
	ctx context.Context, workspaceID string,
) ([]entity.Channel, error) {
	var records []entity.Channel
	err := xcontext.DB(ctx).
		Where("workspace_id=?", workspaceID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
