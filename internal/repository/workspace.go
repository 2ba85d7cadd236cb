package repository

import (
	"context"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, data *entity.Workspace) error
	GetByID(ctx context.Context, id string) (*entity.Workspace, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Workspace, error)
}

type workspaceRepository struct{}

func NewWorkspaceRepository() *workspaceRepository {
	return &workspaceRepository{}
}

func (r *workspaceRepository) Create(ctx context.Context, data *entity.Workspace) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*entity.Workspace, error) {
	var record entity.Workspace
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *workspaceRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Workspace, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var records []entity.Workspace
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
