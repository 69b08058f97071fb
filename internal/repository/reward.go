package repository

import (
	"context"
	"errors"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardRepository interface {
	Create(ctx context.Context, data *entity.Reward) error
	GetByID(ctx context.Context, id string) (*entity.Reward, error)
	GetActiveList(ctx context.Context, offset, limit int) ([]entity.Reward, error)
	UpdateByID(ctx context.Context, id string, data *entity.Reward) error
	DecrementStock(ctx context.Context, id string) error
	IncrementStock(ctx context.Context, id string) error
}

type rewardRepository struct{}

func NewRewardRepository() *rewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, data *entity.Reward) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*entity.Reward, error) {
	var record entity.Reward
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *rewardRepository) GetActiveList(ctx context.Context, offset, limit int) ([]entity.Reward, error) {
	var records []entity.Reward
	err := xcontext.DB(ctx).
		Where("active=true").
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *rewardRepository) UpdateByID(ctx context.Context, id string, data *entity.Reward) error {
	return xcontext.DB(ctx).Model(&entity.Reward{}).Where("id=?", id).Updates(data).Error
}

// DecrementStock only takes effect while stock remains. The caller gets a
// gorm.ErrRecordNotFound when the reward is sold out or inactive. A NULL
// stock is unlimited, the update keeps it NULL since NULL-1 is NULL.
func (r *rewardRepository) DecrementStock(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Reward{}).
		Where("id=? AND active=true AND (stock IS NULL OR stock > 0)", id).
		Update("stock", gorm.Expr("stock-1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *rewardRepository) IncrementStock(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Reward{}).
		Where("id=?", id).
		Update("stock", gorm.Expr("stock+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
