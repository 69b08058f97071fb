package model

import (
	"time"

	"github.com/bskmt/backend/internal/entity"
)

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func ConvertPointTransaction(tx *entity.PointTransaction) PointTransaction {
	if tx == nil {
		return PointTransaction{}
	}

	return PointTransaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Reason:      string(tx.Reason),
		ReferenceID: tx.ReferenceID,
		Description: tx.Description,
		Active:      tx.Active,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}

func ConvertAchievement(achievement *entity.Achievement, unlockedAt time.Time) Achievement {
	if achievement == nil {
		return Achievement{}
	}

	result := Achievement{
		ID:             achievement.ID,
		Name:           achievement.Name,
		Description:    achievement.Description,
		Category:       achievement.Category,
		Icon:           achievement.Icon,
		BonusPoints:    achievement.BonusPoints,
		Condition:      string(achievement.Condition),
		Operator:       string(achievement.Operator),
		ConditionValue: achievement.ConditionValue,
	}

	if !unlockedAt.IsZero() {
		result.UnlockedAt = unlockedAt.Format(time.RFC3339)
	}

	return result
}

func ConvertReward(reward *entity.Reward) Reward {
	if reward == nil {
		return Reward{}
	}

	return Reward{
		ID:          reward.ID,
		Name:        reward.Name,
		Description: reward.Description,
		Metadata:    reward.Metadata,
		Cost:        reward.Cost,
		Stock:       reward.Stock,
		Active:      reward.Active,
	}
}

func ConvertRedemption(redemption *entity.Redemption) Redemption {
	if redemption == nil {
		return Redemption{}
	}

	return Redemption{
		ID:        redemption.ID,
		UserID:    redemption.UserID,
		RewardID:  redemption.RewardID,
		Cost:      redemption.Cost,
		Status:    string(redemption.Status),
		CreatedAt: redemption.CreatedAt.Format(time.RFC3339),
	}
}

func ConvertEvent(event *entity.Event) Event {
	if event == nil {
		return Event{}
	}

	return Event{
		ID:               event.ID,
		Name:             event.Name,
		Description:      event.Description,
		Location:         event.Location,
		StartsAt:         event.StartsAt.Format(time.RFC3339),
		EndsAt:           event.EndsAt.Format(time.RFC3339),
		AttendancePoints: event.AttendancePoints,
	}
}
