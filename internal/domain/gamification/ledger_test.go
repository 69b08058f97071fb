package gamification

import (
	"testing"

	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_ledger_GrantAndDeduct(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userStatsRepo := repository.NewUserStatsRepository()
	pointTxRepo := repository.NewPointTransactionRepository()
	ledger := NewLedger(
		userStatsRepo, pointTxRepo, statistic.New(userStatsRepo, &testutil.MockRedisClient{}))

	tx, err := ledger.Grant(
		ctx, "user1", 100, entity.EventAttendanceReason, "event-ref", "attendance")
	require.NoError(t, err)
	require.Equal(t, int64(100), tx.Amount)
	require.True(t, tx.Active)

	// A second grant with the same reason and reference changes nothing.
	again, err := ledger.Grant(
		ctx, "user1", 100, entity.EventAttendanceReason, "event-ref", "attendance")
	require.NoError(t, err)
	require.Equal(t, tx.ID, again.ID)

	stats, err := userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(100), stats.Points)
	require.Equal(t, "Aspirante", stats.Level)

	_, err = ledger.Grant(ctx, "user1", 200, entity.AdminAdjustmentReason, "", "bonus")
	require.NoError(t, err)

	stats, err = userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(300), stats.Points)
	require.Equal(t, "Explorador", stats.Level)

	_, err = ledger.Deduct(ctx, "user1", 250, entity.RewardRedemptionReason, "redemption1", "")
	require.NoError(t, err)

	stats, err = userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(50), stats.Points)
	require.Equal(t, "Aspirante", stats.Level)

	// The aggregate equals the sum of active rows.
	sum, err := pointTxRepo.SumActiveByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(50), sum)

	_, err = ledger.Deduct(ctx, "user1", 100, entity.RewardRedemptionReason, "redemption2", "")
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.InsufficientPoints, errx.Code)

	stats, err = userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(50), stats.Points)
}

func Test_ledger_Revoke(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userStatsRepo := repository.NewUserStatsRepository()
	pointTxRepo := repository.NewPointTransactionRepository()
	ledger := NewLedger(
		userStatsRepo, pointTxRepo, statistic.New(userStatsRepo, &testutil.MockRedisClient{}))

	tx, err := ledger.Grant(ctx, "user1", 120, entity.AdminAdjustmentReason, "", "mistake")
	require.NoError(t, err)

	require.NoError(t, ledger.Revoke(ctx, tx.ID))

	stats, err := userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Points)

	revoked, err := pointTxRepo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.False(t, revoked.Active)

	sum, err := pointTxRepo.SumActiveByUserID(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(0), sum)

	// Revoking again is a no-op.
	require.NoError(t, ledger.Revoke(ctx, tx.ID))

	stats, err = userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Points)
}

func Test_ledger_Revoke_spentPoints(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userStatsRepo := repository.NewUserStatsRepository()
	pointTxRepo := repository.NewPointTransactionRepository()
	ledger := NewLedger(
		userStatsRepo, pointTxRepo, statistic.New(userStatsRepo, &testutil.MockRedisClient{}))

	tx, err := ledger.Grant(ctx, "user1", 100, entity.AdminAdjustmentReason, "", "")
	require.NoError(t, err)

	_, err = ledger.Deduct(ctx, "user1", 80, entity.RewardRedemptionReason, "redemption1", "")
	require.NoError(t, err)

	// Only 20 of the granted 100 remain, the revocation takes back what is
	// left instead of driving the balance negative.
	require.NoError(t, ledger.Revoke(ctx, tx.ID))

	stats, err := userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Points)
}

func Test_ledger_Revoke_onlyGrants(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userStatsRepo := repository.NewUserStatsRepository()
	pointTxRepo := repository.NewPointTransactionRepository()
	ledger := NewLedger(
		userStatsRepo, pointTxRepo, statistic.New(userStatsRepo, &testutil.MockRedisClient{}))

	_, err := ledger.Grant(ctx, "user1", 100, entity.AdminAdjustmentReason, "", "")
	require.NoError(t, err)

	deduction, err := ledger.Deduct(ctx, "user1", 30, entity.RewardRedemptionReason, "r1", "")
	require.NoError(t, err)

	err = ledger.Revoke(ctx, deduction.ID)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_ledger_RevokeByReference(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userStatsRepo := repository.NewUserStatsRepository()
	pointTxRepo := repository.NewPointTransactionRepository()
	ledger := NewLedger(
		userStatsRepo, pointTxRepo, statistic.New(userStatsRepo, &testutil.MockRedisClient{}))

	_, err := ledger.Grant(ctx, "user1", 60, entity.EventAttendanceReason, "evt-9", "attendance")
	require.NoError(t, err)

	require.NoError(t, ledger.RevokeByReference(
		ctx, "user1", entity.EventAttendanceReason, "evt-9"))

	stats, err := userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Points)

	// Without a matching grant the revocation is a no-op.
	require.NoError(t, ledger.RevokeByReference(
		ctx, "user1", entity.EventAttendanceReason, "evt-9"))
	require.NoError(t, ledger.RevokeByReference(
		ctx, "user1", entity.EventAttendanceReason, "never-granted"))

	stats, err = userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Points)
}
