package repository

import (
	"context"
	"time"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AchievementRepository interface {
	Create(ctx context.Context, data *entity.Achievement) error
	GetByID(ctx context.Context, id string) (*entity.Achievement, error)
	GetActiveList(ctx context.Context) ([]entity.Achievement, error)
	UpdateByID(ctx context.Context, id string, data *entity.Achievement) error
	DeleteByID(ctx context.Context, id string) error
}

type achievementRepository struct{}

func NewAchievementRepository() *achievementRepository {
	return &achievementRepository{}
}

func (r *achievementRepository) Create(ctx context.Context, data *entity.Achievement) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *achievementRepository) GetByID(ctx context.Context, id string) (*entity.Achievement, error) {
	var record entity.Achievement
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *achievementRepository) GetActiveList(ctx context.Context) ([]entity.Achievement, error) {
	var records []entity.Achievement
	if err := xcontext.DB(ctx).Where("active=true").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *achievementRepository) UpdateByID(ctx context.Context, id string, data *entity.Achievement) error {
	return xcontext.DB(ctx).Model(&entity.Achievement{}).Where("id=?", id).Updates(data).Error
}

func (r *achievementRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id=?", id).Delete(&entity.Achievement{}).Error
}

type UserAchievementRepository interface {
	// Unlock inserts the unlock row if it does not exist yet. It reports
	// whether this call actually inserted the row.
	Unlock(ctx context.Context, userID, achievementID string, current, total int64) (bool, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.UserAchievement, error)
	MarkNotified(ctx context.Context, userID string) error
	Count(ctx context.Context, userID string) (int64, error)
}

type userAchievementRepository struct{}

func NewUserAchievementRepository() *userAchievementRepository {
	return &userAchievementRepository{}
}

func (r *userAchievementRepository) Unlock(
	ctx context.Context, userID, achievementID string, current, total int64,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.UserAchievement{
			UserID:          userID,
			AchievementID:   achievementID,
			ProgressCurrent: current,
			ProgressTotal:   total,
			UnlockedAt:      time.Now(),
		})

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

// MarkNotified flags every unlock of the user as seen.
func (r *userAchievementRepository) MarkNotified(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Model(&entity.UserAchievement{}).
		Where("user_id=? AND was_notified=false", userID).
		Update("was_notified", true).Error
}

func (r *userAchievementRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.UserAchievement, error) {
	var records []entity.UserAchievement
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("unlocked_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userAchievementRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.UserAchievement{}).
		Where("user_id=?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
