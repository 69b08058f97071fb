package repository

import (
	"context"
	"time"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, data *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetUpcomingList(ctx context.Context, now time.Time, offset, limit int) ([]entity.Event, error)
	UpdateByID(ctx context.Context, id string, data *entity.Event) error

	Register(ctx context.Context, data *entity.EventRegistration) error
	Unregister(ctx context.Context, userID, eventID string) error
	GetRegistration(ctx context.Context, userID, eventID string) (*entity.EventRegistration, error)
	MarkAttended(ctx context.Context, userID, eventID string) error
	UnmarkAttended(ctx context.Context, userID, eventID string) error
	CountAttendedByUserID(ctx context.Context, userID string) (int64, error)
}

type eventRepository struct{}

func NewEventRepository() *eventRepository {
	return &eventRepository{}
}

func (r *eventRepository) Create(ctx context.Context, data *entity.Event) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	var record entity.Event
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *eventRepository) GetUpcomingList(
	ctx context.Context, now time.Time, offset, limit int,
) ([]entity.Event, error) {
	var records []entity.Event
	err := xcontext.DB(ctx).
		Where("ends_at > ?", now).
		Order("starts_at ASC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *eventRepository) UpdateByID(ctx context.Context, id string, data *entity.Event) error {
	return xcontext.DB(ctx).Model(&entity.Event{}).Where("id=?", id).Updates(data).Error
}

func (r *eventRepository) Register(ctx context.Context, data *entity.EventRegistration) error {
	return xcontext.DB(ctx).Create(data).Error
}

// Unregister only removes a registration whose attendance was not confirmed
// yet. The caller gets a gorm.ErrRecordNotFound otherwise.
func (r *eventRepository) Unregister(ctx context.Context, userID, eventID string) error {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND event_id=? AND attended=false", userID, eventID).
		Delete(&entity.EventRegistration{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *eventRepository) GetRegistration(
	ctx context.Context, userID, eventID string,
) (*entity.EventRegistration, error) {
	var record entity.EventRegistration
	err := xcontext.DB(ctx).
		Where("user_id=? AND event_id=?", userID, eventID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// MarkAttended only takes effect on a registration not yet confirmed, the
// second confirmation gets a gorm.ErrRecordNotFound.
func (r *eventRepository) MarkAttended(ctx context.Context, userID, eventID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.EventRegistration{}).
		Where("user_id=? AND event_id=? AND attended=false", userID, eventID).
		Updates(map[string]any{
			"attended":    true,
			"attended_at": time.Now(),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// UnmarkAttended reverts a confirmed attendance. The attended_at stamp stays
// as the trace of the last confirmation.
func (r *eventRepository) UnmarkAttended(ctx context.Context, userID, eventID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.EventRegistration{}).
		Where("user_id=? AND event_id=? AND attended=true", userID, eventID).
		Update("attended", false)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *eventRepository) CountAttendedByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.EventRegistration{}).
		Where("user_id=? AND attended=true", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
