package testutil

import (
	"context"
	"time"

	"github.com/bskmt/backend/config"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/pkg/authenticator"
	"github.com/bskmt/backend/pkg/logger"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/gorilla/sessions"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "test",
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "session",
		},
		Security: config.SecurityConfigs{
			CSRF: config.CSRFConfigs{
				CookieName: "csrf_token",
				MirrorName: "csrf_token_client",
				HeaderName: "x-csrf-token",
				Expiration: 2 * time.Hour,
			},
			RateLimit: config.RateLimitConfigs{
				API:              config.RateLimitRule{Limit: 100, Window: time.Minute},
				Login:            config.RateLimitRule{Limit: 5, Window: 15 * time.Minute},
				Register:         config.RateLimitRule{Limit: 3, Window: time.Hour},
				MaxTrackedTokens: 1000,
			},
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
