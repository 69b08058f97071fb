package repository

import (
	"context"
	"errors"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PointTransactionRepository interface {
	Create(ctx context.Context, data *entity.PointTransaction) error
	GetByID(ctx context.Context, id string) (*entity.PointTransaction, error)
	GetActiveByReference(
		ctx context.Context, userID string, reason entity.PointReason, referenceID string,
	) (*entity.PointTransaction, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.PointTransaction, error)
	Deactivate(ctx context.Context, id string) error
	SumActiveByUserID(ctx context.Context, userID string) (int64, error)
	SumEarnedByUserID(ctx context.Context, userID string) (int64, error)
}

type pointTransactionRepository struct{}

func NewPointTransactionRepository() *pointTransactionRepository {
	return &pointTransactionRepository{}
}

func (r *pointTransactionRepository) Create(ctx context.Context, data *entity.PointTransaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pointTransactionRepository) GetByID(ctx context.Context, id string) (*entity.PointTransaction, error) {
	var record entity.PointTransaction
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *pointTransactionRepository) GetActiveByReference(
	ctx context.Context, userID string, reason entity.PointReason, referenceID string,
) (*entity.PointTransaction, error) {
	var record entity.PointTransaction
	err := xcontext.DB(ctx).
		Where("user_id=? AND reason=? AND reference_id=? AND active=true",
			userID, reason, referenceID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *pointTransactionRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.PointTransaction, error) {
	var records []entity.PointTransaction
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

// Deactivate only takes effect on an active row. Revoking the same
// transaction twice gets a gorm.ErrRecordNotFound at the second time.
func (r *pointTransactionRepository) Deactivate(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PointTransaction{}).
		Where("id=? AND active=true", id).
		Update("active", false)

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

func (r *pointTransactionRepository) SumActiveByUserID(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := xcontext.DB(ctx).
		Model(&entity.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id=? AND active=true", userID).
		Take(&sum).Error
	if err != nil {
		return 0, err
	}

	return sum, nil
}

// SumEarnedByUserID sums the lifetime earned points, a redemption does not
// lower it.
func (r *pointTransactionRepository) SumEarnedByUserID(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := xcontext.DB(ctx).
		Model(&entity.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id=? AND active=true AND amount > 0", userID).
		Take(&sum).Error
	if err != nil {
		return 0, err
	}

	return sum, nil
}
