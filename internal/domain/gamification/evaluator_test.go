package gamification

import (
	"testing"
	"time"

	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_evaluator_Evaluate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userRepo := repository.NewUserRepository()
	userStatsRepo := repository.NewUserStatsRepository()
	pointTxRepo := repository.NewPointTransactionRepository()
	achievementRepo := repository.NewAchievementRepository()
	userAchievementRepo := repository.NewUserAchievementRepository()
	redemptionRepo := repository.NewRedemptionRepository()
	eventRepo := repository.NewEventRepository()

	leaderboard := statistic.New(userStatsRepo, &testutil.MockRedisClient{})
	ledger := NewLedger(userStatsRepo, pointTxRepo, leaderboard)
	evaluator := NewEvaluator(
		achievementRepo, userAchievementRepo, userRepo, userStatsRepo,
		pointTxRepo, redemptionRepo, eventRepo, leaderboard, ledger,
	)

	achievement := &entity.Achievement{
		Base:           entity.Base{ID: "milla-de-oro"},
		Name:           "Milla de Oro",
		BonusPoints:    50,
		Condition:      entity.PointsAccumulatedCondition,
		Operator:       entity.GreaterOrEqualOp,
		ConditionValue: 100,
		Active:         true,
	}
	require.NoError(t, achievementRepo.Create(ctx, achievement))

	// Below the threshold nothing unlocks.
	_, err := ledger.Grant(ctx, "user1", 60, entity.AdminAdjustmentReason, "", "")
	require.NoError(t, err)

	unlocked, err := evaluator.Evaluate(ctx, "user1")
	require.NoError(t, err)
	require.Empty(t, unlocked)

	current, total, err := evaluator.Progress(ctx, "user1", achievement)
	require.NoError(t, err)
	require.Equal(t, int64(60), current)
	require.Equal(t, int64(100), total)

	_, err = ledger.Grant(ctx, "user1", 40, entity.EventOrganizationReason, "", "")
	require.NoError(t, err)

	unlocked, err = evaluator.Evaluate(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	require.Equal(t, achievement.ID, unlocked[0].ID)

	// The bonus is granted on top of the accumulated points.
	stats, err := userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(150), stats.Points)

	// A second evaluation neither unlocks again nor grants another bonus.
	unlocked, err = evaluator.Evaluate(ctx, "user1")
	require.NoError(t, err)
	require.Empty(t, unlocked)

	stats, err = userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(150), stats.Points)

	// The unlock row keeps the metric snapshot of the unlock moment.
	records, err := userAchievementRepo.GetListByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, int64(100), records[0].ProgressCurrent)
	require.Equal(t, int64(100), records[0].ProgressTotal)
	require.False(t, records[0].WasNotified)

	// Past the threshold the reported progress stays capped at the target.
	current, total, err = evaluator.Progress(ctx, "user1", achievement)
	require.NoError(t, err)
	require.Equal(t, int64(100), current)
	require.Equal(t, int64(100), total)
}

func Test_evaluator_Evaluate_eventsAttended(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	testutil.InsertEvents(ctx)

	userRepo := repository.NewUserRepository()
	userStatsRepo := repository.NewUserStatsRepository()
	pointTxRepo := repository.NewPointTransactionRepository()
	achievementRepo := repository.NewAchievementRepository()
	userAchievementRepo := repository.NewUserAchievementRepository()
	redemptionRepo := repository.NewRedemptionRepository()
	eventRepo := repository.NewEventRepository()

	leaderboard := statistic.New(userStatsRepo, &testutil.MockRedisClient{})
	ledger := NewLedger(userStatsRepo, pointTxRepo, leaderboard)
	evaluator := NewEvaluator(
		achievementRepo, userAchievementRepo, userRepo, userStatsRepo,
		pointTxRepo, redemptionRepo, eventRepo, leaderboard, ledger,
	)

	require.NoError(t, achievementRepo.Create(ctx, &entity.Achievement{
		Base:           entity.Base{ID: "primera-rodada"},
		Name:           "Primera Rodada",
		BonusPoints:    25,
		Condition:      entity.EventsAttendedCondition,
		Operator:       entity.GreaterOrEqualOp,
		ConditionValue: 1,
		Active:         true,
	}))

	require.NoError(t, eventRepo.Register(ctx, &entity.EventRegistration{
		UserID: "user1", EventID: "event1", RegisteredAt: time.Now(),
	}))
	require.NoError(t, eventRepo.MarkAttended(ctx, "user1", "event1"))

	unlocked, err := evaluator.Evaluate(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)

	stats, err := userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(25), stats.Points)

	// The other user attended nothing.
	unlocked, err = evaluator.Evaluate(ctx, "user2")
	require.NoError(t, err)
	require.Empty(t, unlocked)
}

func Test_monthsSince(t *testing.T) {
	from := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	require.Equal(t, int64(0), monthsSince(from, time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, int64(1), monthsSince(from, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, int64(12), monthsSince(from, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, int64(0), monthsSince(from, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
