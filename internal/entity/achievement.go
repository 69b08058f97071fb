package entity

import (
	"time"

	"github.com/bskmt/backend/pkg/enum"
)

type AchievementCondition string

var (
	PointsAccumulatedCondition = enum.New(AchievementCondition("points_accumulated"))
	RewardsRedeemedCondition   = enum.New(AchievementCondition("rewards_redeemed"))
	EventsAttendedCondition    = enum.New(AchievementCondition("events_attended"))
	MonthsActiveCondition      = enum.New(AchievementCondition("months_active"))
	RankingPositionCondition   = enum.New(AchievementCondition("ranking_position"))
	LevelReachedCondition      = enum.New(AchievementCondition("level_reached"))
)

type ConditionOperator string

var (
	GreaterOrEqualOp = enum.New(ConditionOperator("gte"))
	EqualOp          = enum.New(ConditionOperator("eq"))
	LessOrEqualOp    = enum.New(ConditionOperator("lte"))
)

type Achievement struct {
	Base

	Name        string `gorm:"unique"`
	Description string
	Category    string
	Icon        string
	BonusPoints uint64

	Condition      AchievementCondition
	Operator       ConditionOperator
	ConditionValue int64

	Active bool `gorm:"default:true"`
}

// UserAchievement records an unlock with the metric snapshot of that moment.
// WasNotified stays false until the user saw the unlock once.
type UserAchievement struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	AchievementID string      `gorm:"primaryKey"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID"`

	ProgressCurrent int64
	ProgressTotal   int64

	UnlockedAt  time.Time
	WasNotified bool
}
