package domain

import (
	"testing"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/testutil"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_achievementDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	achievementDomain := NewAchievementDomain(
		s.achievementRepo, s.userAchievementRepo, s.userRepo, s.evaluator)

	resp, err := achievementDomain.Create(ctx, &model.CreateAchievementRequest{
		Name:           "Milla de Oro",
		BonusPoints:    100,
		Condition:      "points_accumulated",
		Operator:       "gte",
		ConditionValue: 1000,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	_, err = achievementDomain.Create(ctx, &model.CreateAchievementRequest{
		Name:      "Broken",
		Condition: "no_such_metric",
		Operator:  "gte",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = achievementDomain.Create(ctx, &model.CreateAchievementRequest{
		Name:      "Broken",
		Condition: "points_accumulated",
		Operator:  "between",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = achievementDomain.Create(
		xcontext.WithRequestUserID(ctx, "user1"),
		&model.CreateAchievementRequest{
			Name:      "Sneaky",
			Condition: "points_accumulated",
			Operator:  "gte",
		})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_achievementDomain_GetListAndGetMine(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	achievementDomain := NewAchievementDomain(
		s.achievementRepo, s.userAchievementRepo, s.userRepo, s.evaluator)

	require.NoError(t, s.achievementRepo.Create(ctx, &entity.Achievement{
		Base:           entity.Base{ID: "milla-de-oro"},
		Name:           "Milla de Oro",
		BonusPoints:    50,
		Condition:      entity.PointsAccumulatedCondition,
		Operator:       entity.GreaterOrEqualOp,
		ConditionValue: 100,
		Active:         true,
	}))
	require.NoError(t, s.achievementRepo.Create(ctx, &entity.Achievement{
		Base:      entity.Base{ID: "retired"},
		Name:      "Retired",
		Condition: entity.PointsAccumulatedCondition,
		Operator:  entity.GreaterOrEqualOp,
		Active:    false,
	}))

	// The catalog hides inactive achievements.
	list, err := achievementDomain.GetList(ctx, &model.GetAchievementsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Achievements, 1)
	require.Equal(t, "Milla de Oro", list.Achievements[0].Name)
	require.Empty(t, list.Achievements[0].UnlockedAt)

	// A locked achievement still shows up, with its progress at zero.
	mine, err := achievementDomain.GetMine(ctx, &model.GetMyAchievementsRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Achievements, 1)
	require.Empty(t, mine.Achievements[0].UnlockedAt)
	require.Equal(t, &model.AchievementProgress{Current: 0, Total: 100}, mine.Achievements[0].Progress)

	_, err = s.ledger.Grant(ctx, "user1", 60, entity.AdminAdjustmentReason, "", "")
	require.NoError(t, err)

	mine, err = achievementDomain.GetMine(ctx, &model.GetMyAchievementsRequest{})
	require.NoError(t, err)
	require.Equal(t, &model.AchievementProgress{Current: 60, Total: 100}, mine.Achievements[0].Progress)

	_, err = s.ledger.Grant(ctx, "user1", 40, entity.AdminAdjustmentReason, "second", "")
	require.NoError(t, err)
	_, err = s.evaluator.Evaluate(ctx, "user1")
	require.NoError(t, err)

	mine, err = achievementDomain.GetMine(ctx, &model.GetMyAchievementsRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Achievements, 1)
	require.Equal(t, "milla-de-oro", mine.Achievements[0].ID)
	require.NotEmpty(t, mine.Achievements[0].UnlockedAt)
	require.Equal(t, &model.AchievementProgress{Current: 100, Total: 100}, mine.Achievements[0].Progress)
	require.False(t, mine.Achievements[0].WasNotified)

	// The unlock is flagged as seen after the first read.
	mine, err = achievementDomain.GetMine(ctx, &model.GetMyAchievementsRequest{})
	require.NoError(t, err)
	require.True(t, mine.Achievements[0].WasNotified)
}

func Test_achievementDomain_Verify(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	achievementDomain := NewAchievementDomain(
		s.achievementRepo, s.userAchievementRepo, s.userRepo, s.evaluator)

	require.NoError(t, s.achievementRepo.Create(ctx, &entity.Achievement{
		Base:           entity.Base{ID: "milla-de-oro"},
		Name:           "Milla de Oro",
		BonusPoints:    25,
		Condition:      entity.PointsAccumulatedCondition,
		Operator:       entity.GreaterOrEqualOp,
		ConditionValue: 100,
		Active:         true,
	}))

	resp, err := achievementDomain.Verify(ctx, &model.VerifyAchievementsRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Unlocked)

	_, err = s.ledger.Grant(ctx, "user1", 150, entity.AdminAdjustmentReason, "", "seed")
	require.NoError(t, err)

	resp, err = achievementDomain.Verify(ctx, &model.VerifyAchievementsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Unlocked, 1)
	require.Equal(t, "Milla de Oro", resp.Unlocked[0].Name)
	require.Equal(t, &model.AchievementProgress{Current: 100, Total: 100}, resp.Unlocked[0].Progress)

	// The bonus went through the ledger.
	stats, err := s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(175), stats.Points)

	// A second verification has nothing left to unlock.
	resp, err = achievementDomain.Verify(ctx, &model.VerifyAchievementsRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Unlocked)
}
