package domain

import (
	"testing"

	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/testutil"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_pointsDomain_Grant(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	pointsDomain := NewPointsDomain(s.pointTxRepo, s.userRepo, s.ledger, s.evaluator)

	resp, err := pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserID:      "user1",
		Amount:      300,
		Reason:      "event_organization",
		Description: "Organized the anniversary ride",
	})
	require.NoError(t, err)
	require.Equal(t, int64(300), resp.Transaction.Amount)
	require.Equal(t, "event_organization", resp.Transaction.Reason)

	stats, err := s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(300), stats.Points)
	require.Equal(t, "Explorador", stats.Level)

	_, err = pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserID: "user1", Amount: 10, Reason: "no_such_reason",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// A regular member cannot grant points.
	_, err = pointsDomain.Grant(
		xcontext.WithRequestUserID(ctx, "user1"),
		&model.GrantPointsRequest{UserID: "user2", Amount: 10, Reason: "referral"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_pointsDomain_Revoke(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	pointsDomain := NewPointsDomain(s.pointTxRepo, s.userRepo, s.ledger, s.evaluator)

	resp, err := pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserID: "user1", Amount: 120, Reason: "admin_adjustment",
	})
	require.NoError(t, err)

	_, err = pointsDomain.Revoke(ctx, &model.RevokePointsRequest{
		TransactionID: resp.Transaction.ID,
	})
	require.NoError(t, err)

	stats, err := s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(0), stats.Points)

	_, err = pointsDomain.Revoke(
		xcontext.WithRequestUserID(ctx, "user1"),
		&model.RevokePointsRequest{TransactionID: resp.Transaction.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	_, err = pointsDomain.Revoke(ctx, &model.RevokePointsRequest{TransactionID: "nope"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_pointsDomain_GetHistory(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	pointsDomain := NewPointsDomain(s.pointTxRepo, s.userRepo, s.ledger, s.evaluator)

	for _, amount := range []uint64{10, 20, 30} {
		_, err := pointsDomain.Grant(ctx, &model.GrantPointsRequest{
			UserID: "user1", Amount: amount, Reason: "admin_adjustment",
		})
		require.NoError(t, err)
	}

	userCtx := xcontext.WithRequestUserID(ctx, "user1")
	resp, err := pointsDomain.GetHistory(userCtx, &model.GetPointHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 3)

	resp, err = pointsDomain.GetHistory(userCtx, &model.GetPointHistoryRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 2)

	_, err = pointsDomain.GetHistory(userCtx, &model.GetPointHistoryRequest{Limit: 1000})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_pointsDomain_Grant_byEmail(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	pointsDomain := NewPointsDomain(s.pointTxRepo, s.userRepo, s.ledger, s.evaluator)

	resp, err := pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserEmail: "user1@club.test",
		Amount:    50,
		Reason:    "admin_bonus",
	})
	require.NoError(t, err)
	require.Equal(t, "user1", resp.Transaction.UserID)

	stats, err := s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(50), stats.Points)

	_, err = pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserEmail: "ghost@club.test", Amount: 50, Reason: "admin_bonus",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	_, err = pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		Amount: 50, Reason: "admin_bonus",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_pointsDomain_Grant_activityReasons(t *testing.T) {
	ctx := testutil.MockContextWithUserID("admin")
	testutil.InsertUsers(ctx)

	s := newTestStack()
	pointsDomain := NewPointsDomain(s.pointTxRepo, s.userRepo, s.ledger, s.evaluator)

	_, err := pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserID: "user1", Amount: 248, Reason: "post",
	})
	require.NoError(t, err)

	stats, err := s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, "Aspirante", stats.Level)

	// Two points for a comment push the member over the 250 threshold.
	resp, err := pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserID: "user1", Amount: 2, Reason: "comment",
	})
	require.NoError(t, err)
	require.Equal(t, "comment", resp.Transaction.Reason)

	stats, err = s.userStatsRepo.Get(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(250), stats.Points)
	require.Equal(t, "Explorador", stats.Level)

	_, err = pointsDomain.Grant(ctx, &model.GrantPointsRequest{
		UserID: "user2", Amount: 5, Reason: "join_group",
	})
	require.NoError(t, err)
}
