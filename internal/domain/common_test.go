package domain

import (
	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/testutil"
)

type testStack struct {
	userRepo            repository.UserRepository
	userStatsRepo       repository.UserStatsRepository
	pointTxRepo         repository.PointTransactionRepository
	achievementRepo     repository.AchievementRepository
	userAchievementRepo repository.UserAchievementRepository
	rewardRepo          repository.RewardRepository
	redemptionRepo      repository.RedemptionRepository
	eventRepo           repository.EventRepository

	leaderboard statistic.Leaderboard
	ledger      gamification.Ledger
	evaluator   gamification.Evaluator
}

func newTestStack() *testStack {
	s := &testStack{
		userRepo:            repository.NewUserRepository(),
		userStatsRepo:       repository.NewUserStatsRepository(),
		pointTxRepo:         repository.NewPointTransactionRepository(),
		achievementRepo:     repository.NewAchievementRepository(),
		userAchievementRepo: repository.NewUserAchievementRepository(),
		rewardRepo:          repository.NewRewardRepository(),
		redemptionRepo:      repository.NewRedemptionRepository(),
		eventRepo:           repository.NewEventRepository(),
	}

	s.leaderboard = statistic.New(s.userStatsRepo, &testutil.MockRedisClient{})
	s.ledger = gamification.NewLedger(s.userStatsRepo, s.pointTxRepo, s.leaderboard)
	s.evaluator = gamification.NewEvaluator(
		s.achievementRepo, s.userAchievementRepo, s.userRepo, s.userStatsRepo,
		s.pointTxRepo, s.redemptionRepo, s.eventRepo, s.leaderboard, s.ledger,
	)

	return s
}
