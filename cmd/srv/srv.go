package main

import (
	"context"

	"github.com/bskmt/backend/config"
	"github.com/bskmt/backend/internal/domain"
	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/middleware"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/authenticator"
	"github.com/bskmt/backend/pkg/logger"
	"github.com/bskmt/backend/pkg/router"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/bskmt/backend/pkg/xredis"
	"github.com/gorilla/sessions"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo            repository.UserRepository
	userStatsRepo       repository.UserStatsRepository
	pointTxRepo         repository.PointTransactionRepository
	achievementRepo     repository.AchievementRepository
	userAchievementRepo repository.UserAchievementRepository
	rewardRepo          repository.RewardRepository
	redemptionRepo      repository.RedemptionRepository
	eventRepo           repository.EventRepository

	redisClient xredis.Client
	leaderboard statistic.Leaderboard
	ledger      gamification.Ledger
	evaluator   gamification.Evaluator
	limiter     middleware.Limiter

	authDomain        domain.AuthDomain
	userDomain        domain.UserDomain
	pointsDomain      domain.PointsDomain
	statisticDomain   domain.StatisticDomain
	achievementDomain domain.AchievementDomain
	rewardDomain      domain.RewardDomain
	eventDomain       domain.EventDomain

	router *router.Router
}

func (s *srv) loadConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "dev" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	cfg := xcontext.Configs(s.ctx)
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.Database.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadAuth() {
	cfg := xcontext.Configs(s.ctx)
	engine := authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken)
	s.ctx = xcontext.WithTokenEngine(s.ctx, engine)
	s.ctx = xcontext.WithSessionStore(s.ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
}

func (s *srv) loadRedis() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.userStatsRepo = repository.NewUserStatsRepository()
	s.pointTxRepo = repository.NewPointTransactionRepository()
	s.achievementRepo = repository.NewAchievementRepository()
	s.userAchievementRepo = repository.NewUserAchievementRepository()
	s.rewardRepo = repository.NewRewardRepository()
	s.redemptionRepo = repository.NewRedemptionRepository()
	s.eventRepo = repository.NewEventRepository()
}

func (s *srv) loadGamification() {
	s.leaderboard = statistic.New(s.userStatsRepo, s.redisClient)
	s.ledger = gamification.NewLedger(s.userStatsRepo, s.pointTxRepo, s.leaderboard)
	s.evaluator = gamification.NewEvaluator(
		s.achievementRepo,
		s.userAchievementRepo,
		s.userRepo,
		s.userStatsRepo,
		s.pointTxRepo,
		s.redemptionRepo,
		s.eventRepo,
		s.leaderboard,
		s.ledger,
	)
	cfg := xcontext.Configs(s.ctx)
	if cfg.Security.RateLimit.Driver == "memory" {
		s.limiter = middleware.NewMemoryLimiter(cfg.Security.RateLimit.MaxTrackedTokens)
	} else {
		s.limiter = middleware.NewRedisLimiter(s.redisClient)
	}
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.userStatsRepo)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.userStatsRepo, s.leaderboard)
	s.pointsDomain = domain.NewPointsDomain(s.pointTxRepo, s.userRepo, s.ledger, s.evaluator)
	s.statisticDomain = domain.NewStatisticDomain(s.userRepo, s.leaderboard)
	s.achievementDomain = domain.NewAchievementDomain(
		s.achievementRepo, s.userAchievementRepo, s.userRepo, s.evaluator)
	s.rewardDomain = domain.NewRewardDomain(
		s.rewardRepo, s.redemptionRepo, s.userRepo, s.ledger, s.evaluator)
	s.eventDomain = domain.NewEventDomain(s.eventRepo, s.userRepo, s.ledger, s.evaluator)
}
