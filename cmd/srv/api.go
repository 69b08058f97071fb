package main

import (
	"fmt"
	"net/http"

	"github.com/bskmt/backend/internal/middleware"
	"github.com/bskmt/backend/migration"
	"github.com/bskmt/backend/pkg/prometheus"
	"github.com/bskmt/backend/pkg/router"
	"github.com/bskmt/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadAuth()
	s.loadRedis()
	s.loadRepos()
	s.loadGamification()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	server := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.ApiServer.Address())
	if cfg.ApiServer.Cert != "" && cfg.ApiServer.Key != "" {
		return server.ListenAndServeTLS(cfg.ApiServer.Cert, cfg.ApiServer.Key)
	}

	return server.ListenAndServe()
}

func (s *srv) runMigration(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	if err := migration.Migrate(s.ctx); err != nil {
		return fmt.Errorf("cannot run migrations: %w", err)
	}

	xcontext.Logger(s.ctx).Infof("Migrations completed")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	apiLimit := middleware.RateLimit("api", cfg.Security.RateLimit.API, s.limiter)

	// Auth API. The register and login routes carry tighter rate limits and
	// the csrf check, an anonymous caller gets the token from /csrf first.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.RequireCSRF())
	authRouter.After(middleware.HandleSaveSession())
	{
		registerRouter := authRouter.Branch()
		registerRouter.Before(middleware.RateLimit("register", cfg.Security.RateLimit.Register, s.limiter))
		router.POST(registerRouter, "/register", s.authDomain.Register)

		loginRouter := authRouter.Branch()
		loginRouter.Before(middleware.RateLimit("login", cfg.Security.RateLimit.Login, s.limiter))
		router.POST(loginRouter, "/login", s.authDomain.Login)
	}

	// These following APIs need authentication with the access token.
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	onlyTokenAuthRouter := s.router.Branch()
	onlyTokenAuthRouter.Before(authVerifier.Middleware())
	onlyTokenAuthRouter.Before(apiLimit)
	onlyTokenAuthRouter.Before(middleware.RequireCSRF())
	{
		// User API
		router.GET(onlyTokenAuthRouter, "/getMe", s.userDomain.GetMe)
		router.POST(onlyTokenAuthRouter, "/updateUserRole", s.userDomain.UpdateRole)

		// Points API
		router.POST(onlyTokenAuthRouter, "/grantPoints", s.pointsDomain.Grant)
		router.POST(onlyTokenAuthRouter, "/revokePoints", s.pointsDomain.Revoke)
		router.GET(onlyTokenAuthRouter, "/getPointHistory", s.pointsDomain.GetHistory)

		// Achievement API
		router.GET(onlyTokenAuthRouter, "/getMyAchievements", s.achievementDomain.GetMine)
		router.POST(onlyTokenAuthRouter, "/verifyAchievements", s.achievementDomain.Verify)
		router.POST(onlyTokenAuthRouter, "/createAchievement", s.achievementDomain.Create)

		// Reward API
		router.POST(onlyTokenAuthRouter, "/createReward", s.rewardDomain.Create)
		router.POST(onlyTokenAuthRouter, "/redeemReward", s.rewardDomain.Redeem)
		router.POST(onlyTokenAuthRouter, "/cancelRedemption", s.rewardDomain.Cancel)
		router.POST(onlyTokenAuthRouter, "/fulfillRedemption", s.rewardDomain.Fulfill)
		router.GET(onlyTokenAuthRouter, "/getMyRedemptions", s.rewardDomain.GetMyRedemptions)

		// Event API
		router.POST(onlyTokenAuthRouter, "/createEvent", s.eventDomain.Create)
		router.POST(onlyTokenAuthRouter, "/registerEvent", s.eventDomain.Register)
		router.POST(onlyTokenAuthRouter, "/cancelEventRegistration", s.eventDomain.CancelRegistration)
		router.POST(onlyTokenAuthRouter, "/confirmAttendance", s.eventDomain.ConfirmAttendance)
		router.POST(onlyTokenAuthRouter, "/unmarkAttendance", s.eventDomain.UnmarkAttendance)
	}

	// Public API.
	publicRouter := s.router.Branch()
	publicRouter.Before(apiLimit)
	{
		router.GET(publicRouter, "/csrf", middleware.IssueCSRFToken)
		router.GET(publicRouter, "/getUser", s.userDomain.GetUser)
		router.GET(publicRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(publicRouter, "/getRank", s.statisticDomain.GetRank)
		router.GET(publicRouter, "/getAchievements", s.achievementDomain.GetList)
		router.GET(publicRouter, "/getRewards", s.rewardDomain.GetList)
		router.GET(publicRouter, "/getEvents", s.eventDomain.GetList)
	}

	s.router.Handle("/metrics", prometheus.NewHandler())
}
