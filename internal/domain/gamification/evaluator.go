package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Evaluator checks the achievement catalog against the current metrics of a
// user and unlocks what is satisfied. An unlock happens at most once, the
// bonus grant is idempotent by the achievement id.
type Evaluator interface {
	Evaluate(ctx context.Context, userID string) ([]entity.Achievement, error)

	// Progress reports how far a user is toward an achievement as a
	// current/total pair. For a gte condition the current value is clamped
	// into [0, total], other operators report the raw metric.
	Progress(ctx context.Context, userID string, achievement *entity.Achievement) (int64, int64, error)
}

type evaluator struct {
	achievementRepo     repository.AchievementRepository
	userAchievementRepo repository.UserAchievementRepository
	userRepo            repository.UserRepository
	userStatsRepo       repository.UserStatsRepository
	pointTxRepo         repository.PointTransactionRepository
	redemptionRepo      repository.RedemptionRepository
	eventRepo           repository.EventRepository
	leaderboard         statistic.Leaderboard
	ledger              Ledger
}

func NewEvaluator(
	achievementRepo repository.AchievementRepository,
	userAchievementRepo repository.UserAchievementRepository,
	userRepo repository.UserRepository,
	userStatsRepo repository.UserStatsRepository,
	pointTxRepo repository.PointTransactionRepository,
	redemptionRepo repository.RedemptionRepository,
	eventRepo repository.EventRepository,
	leaderboard statistic.Leaderboard,
	ledger Ledger,
) *evaluator {
	return &evaluator{
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
		userRepo:            userRepo,
		userStatsRepo:       userStatsRepo,
		pointTxRepo:         pointTxRepo,
		redemptionRepo:      redemptionRepo,
		eventRepo:           eventRepo,
		leaderboard:         leaderboard,
		ledger:              ledger,
	}
}

func (e *evaluator) Evaluate(ctx context.Context, userID string) ([]entity.Achievement, error) {
	achievements, err := e.achievementRepo.GetActiveList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the achievement catalog: %v", err)
		return nil, errorx.Unknown
	}

	var unlocked []entity.Achievement
	for _, achievement := range achievements {
		value, err := e.metric(ctx, userID, achievement.Condition)
		if err != nil {
			xcontext.Logger(ctx).Debugf(
				"Cannot compute metric %s of user %s: %v", achievement.Condition, userID, err)
			continue
		}

		if !satisfied(value, achievement.Operator, achievement.ConditionValue) {
			continue
		}

		inserted, err := e.userAchievementRepo.Unlock(
			ctx, userID, achievement.ID,
			clampProgress(value, &achievement), achievement.ConditionValue)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unlock the achievement: %v", err)
			return nil, errorx.Unknown
		}

		if !inserted {
			continue
		}

		if achievement.BonusPoints > 0 {
			_, err := e.ledger.Grant(
				ctx, userID, achievement.BonusPoints,
				entity.AchievementBonusReason, achievement.ID,
				fmt.Sprintf("Bonus of achievement %s", achievement.Name),
			)
			if err != nil {
				return nil, err
			}
		}

		unlocked = append(unlocked, achievement)
	}

	return unlocked, nil
}

func (e *evaluator) Progress(
	ctx context.Context, userID string, achievement *entity.Achievement,
) (int64, int64, error) {
	value, err := e.metric(ctx, userID, achievement.Condition)
	if err != nil {
		return 0, achievement.ConditionValue, err
	}

	return clampProgress(value, achievement), achievement.ConditionValue, nil
}

func clampProgress(value int64, achievement *entity.Achievement) int64 {
	if achievement.Operator != entity.GreaterOrEqualOp {
		return value
	}

	if value < 0 {
		return 0
	}

	if value > achievement.ConditionValue {
		return achievement.ConditionValue
	}

	return value
}

func (e *evaluator) metric(
	ctx context.Context, userID string, condition entity.AchievementCondition,
) (int64, error) {
	switch condition {
	case entity.PointsAccumulatedCondition:
		return e.pointTxRepo.SumEarnedByUserID(ctx, userID)

	case entity.RewardsRedeemedCondition:
		return e.redemptionRepo.CountCompletedByUserID(ctx, userID)

	case entity.EventsAttendedCondition:
		return e.eventRepo.CountAttendedByUserID(ctx, userID)

	case entity.MonthsActiveCondition:
		user, err := e.userRepo.GetByID(ctx, userID)
		if err != nil {
			return 0, err
		}
		return monthsSince(user.CreatedAt, time.Now()), nil

	case entity.RankingPositionCondition:
		rank, err := e.leaderboard.GetRank(ctx, userID)
		if err != nil {
			return 0, err
		}
		if rank == 0 {
			return 0, errors.New("user is not ranked yet")
		}
		return int64(rank), nil

	case entity.LevelReachedCondition:
		stats, err := e.userStatsRepo.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, nil
			}
			return 0, err
		}
		return int64(LevelIndex(stats.Level)), nil
	}

	return 0, fmt.Errorf("unknown condition %s", condition)
}

func satisfied(value int64, op entity.ConditionOperator, target int64) bool {
	switch op {
	case entity.GreaterOrEqualOp:
		return value >= target
	case entity.EqualOp:
		return value == target
	case entity.LessOrEqualOp:
		return value <= target
	}

	return false
}

func monthsSince(from, to time.Time) int64 {
	months := int64(to.Year()-from.Year())*12 + int64(to.Month()) - int64(from.Month())
	if to.Day() < from.Day() {
		months--
	}

	if months < 0 {
		return 0
	}

	return months
}
