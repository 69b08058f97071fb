package domain

import (
	"context"

	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
)

type StatisticDomain interface {
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetRank(ctx context.Context, req *model.GetRankRequest) (*model.GetRankResponse, error)
}

type statisticDomain struct {
	userRepo    repository.UserRepository
	leaderboard statistic.Leaderboard
}

func NewStatisticDomain(
	userRepo repository.UserRepository,
	leaderboard statistic.Leaderboard,
) StatisticDomain {
	return &statisticDomain{userRepo: userRepo, leaderboard: leaderboard}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	offset, limit, err := normalizePagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	entries, err := d.leaderboard.GetLeaderboard(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		userIDs = append(userIDs, entry.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the leaderboard users: %v", err)
		return nil, errorx.Unknown
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}

	for i := range entries {
		entries[i].Name = names[entries[i].UserID]
		entries[i].Level = gamification.ComputeLevel(entries[i].Points).Name
	}

	return &model.GetLeaderboardResponse{Leaderboard: entries}, nil
}

func (d *statisticDomain) GetRank(
	ctx context.Context, req *model.GetRankRequest,
) (*model.GetRankResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "A user id is required")
	}

	rank, err := d.leaderboard.GetRank(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.GetRankResponse{Rank: rank}, nil
}
