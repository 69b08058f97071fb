package statistic

import (
	"context"
	"errors"

	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/bskmt/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const loadBatchSize = 500

type Leaderboard interface {
	GetLeaderboard(ctx context.Context, offset, limit int) ([]model.LeaderboardEntry, error)
	GetRank(ctx context.Context, userID string) (uint64, error)

	// ChangePoints shifts the cached score of a user. It is a no-op while the
	// cache is cold, the next read loads the database state.
	ChangePoints(ctx context.Context, value int64, userID string) error
}

type leaderboard struct {
	userStatsRepo repository.UserStatsRepository
	redisClient   xredis.Client
}

func New(userStatsRepo repository.UserStatsRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{userStatsRepo: userStatsRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderboard(
	ctx context.Context, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	key := redisKeyPointsLeaderboard()
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		if err := l.loadLeaderboardFromDB(ctx); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i, z := range results {
		entries = append(entries, model.LeaderboardEntry{
			UserID: z.Member.(string),
			Points: uint64(z.Score),
			Rank:   offset + i + 1,
		})
	}

	return entries, nil
}

func (l *leaderboard) GetRank(ctx context.Context, userID string) (uint64, error) {
	key := redisKeyPointsLeaderboard()
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	if !ok {
		if err := l.loadLeaderboardFromDB(ctx); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		// The user is not in the cache, the database decides whether a rank
		// exists at all.
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		dbRank, err := l.userStatsRepo.GetRank(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, nil
			}

			xcontext.Logger(ctx).Errorf("Cannot get rank from database: %v", err)
			return 0, errorx.Unknown
		}

		return dbRank, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangePoints(ctx context.Context, value int64, userID string) error {
	key := redisKeyPointsLeaderboard()
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	if !ok {
		return nil
	}

	if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

func (l *leaderboard) loadLeaderboardFromDB(ctx context.Context) error {
	key := redisKeyPointsLeaderboard()
	for offset := 0; ; offset += loadBatchSize {
		stats, err := l.userStatsRepo.GetLeaderboard(ctx, offset, loadBatchSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load stats from database: %v", err)
			return errorx.Unknown
		}

		for _, s := range stats {
			err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: s.UserID, Score: float64(s.Points)})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
				return errorx.Unknown
			}
		}

		if len(stats) < loadBatchSize {
			return nil
		}
	}
}
