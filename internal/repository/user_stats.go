package repository

import (
	"context"
	"errors"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserStatsRepository interface {
	Create(ctx context.Context, data *entity.UserStats) error
	Get(ctx context.Context, userID string) (*entity.UserStats, error)
	IncreasePoints(ctx context.Context, userID string, points uint64) error
	DecreasePoints(ctx context.Context, userID string, points uint64) error
	UpdateLevel(ctx context.Context, userID, level string) error
	GetLeaderboard(ctx context.Context, offset, limit int) ([]entity.UserStats, error)
	GetRank(ctx context.Context, userID string) (uint64, error)
	Count(ctx context.Context) (int64, error)
}

type userStatsRepository struct{}

func NewUserStatsRepository() *userStatsRepository {
	return &userStatsRepository{}
}

func (r *userStatsRepository) Create(ctx context.Context, data *entity.UserStats) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userStatsRepository) Get(ctx context.Context, userID string) (*entity.UserStats, error) {
	var record entity.UserStats
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userStatsRepository) IncreasePoints(ctx context.Context, userID string, points uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserStats{}).
		Where("user_id=?", userID).
		Update("points", gorm.Expr("points+?", points))

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

// DecreasePoints only takes effect if the balance is enough. The caller gets
// a gorm.ErrRecordNotFound when the balance is lower than points.
func (r *userStatsRepository) DecreasePoints(ctx context.Context, userID string, points uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserStats{}).
		Where("user_id=? AND points >= ?", userID, points).
		Update("points", gorm.Expr("points-?", points))

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

func (r *userStatsRepository) UpdateLevel(ctx context.Context, userID, level string) error {
	return xcontext.DB(ctx).
		Model(&entity.UserStats{}).
		Where("user_id=?", userID).
		Update("level", level).Error
}

// GetLeaderboard orders by points descending, the earlier registered user
// wins a tie.
func (r *userStatsRepository) GetLeaderboard(
	ctx context.Context, offset, limit int,
) ([]entity.UserStats, error) {
	var records []entity.UserStats
	err := xcontext.DB(ctx).
		Model(&entity.UserStats{}).
		Order("points DESC, created_at ASC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetRank returns the 1-based position of the user under the leaderboard
// ordering.
func (r *userStatsRepository) GetRank(ctx context.Context, userID string) (uint64, error) {
	me, err := r.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	var ahead int64
	err = xcontext.DB(ctx).
		Model(&entity.UserStats{}).
		Where("points > ? OR (points = ? AND created_at < ?)", me.Points, me.Points, me.CreatedAt).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}

	return uint64(ahead) + 1, nil
}

func (r *userStatsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.UserStats{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
