package repository

import (
	"context"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type WorkspaceMemberRepository interface {
	Create(ctx context.Context, data *entity.WorkspaceMember) error
	Get(ctx context.Context, workspaceID, userID string) (*entity.WorkspaceMember, error)
	GetListByWorkspaceID(ctx context.Context, workspaceID string) ([]entity.WorkspaceMember, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.WorkspaceMember, error)
}

type workspaceMemberRepository struct{}

func NewWorkspaceMemberRepository() *workspaceMemberRepository {
	return &workspaceMemberRepository{}
}

func (r *workspaceMemberRepository) Create(ctx context.Context, data *entity.WorkspaceMember) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *workspaceMemberRepository) Get(
	ctx context.Context, workspaceID, userID string,
) (*entity.WorkspaceMember, error) {
	var record entity.WorkspaceMember
	err := xcontext.DB(ctx).
		Where("workspace_id=? AND user_id=?", workspaceID, userID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *workspaceMemberRepository) GetListByWorkspaceID(
	ctx context.Context, workspaceID string,
) ([]entity.WorkspaceMember, error) {
	var records []entity.WorkspaceMember
	err := xcontext.DB(ctx).
		Where("workspace_id=?", workspaceID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *workspaceMemberRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.WorkspaceMember, error) {
	var records []entity.WorkspaceMember
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
