package repository

import (
	"context"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RedemptionRepository interface {
	Create(ctx context.Context, data *entity.Redemption) error
	GetByID(ctx context.Context, id string) (*entity.Redemption, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Redemption, error)
	CountCompletedByUserID(ctx context.Context, userID string) (int64, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.RedemptionStatus) error
}

type redemptionRepository struct{}

func NewRedemptionRepository() *redemptionRepository {
	return &redemptionRepository{}
}

func (r *redemptionRepository) Create(ctx context.Context, data *entity.Redemption) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *redemptionRepository) GetByID(ctx context.Context, id string) (*entity.Redemption, error) {
	var record entity.Redemption
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *redemptionRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Redemption, error) {
	var records []entity.Redemption
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *redemptionRepository) CountCompletedByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Redemption{}).
		Where("user_id=? AND status<>?", userID, entity.RedemptionCancelled).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateStatus moves the redemption from one status to another. A stale
// transition gets a gorm.ErrRecordNotFound, a cancelled redemption cannot be
// fulfilled afterwards.
func (r *redemptionRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.RedemptionStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Redemption{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
