package domain

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/crypto"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

type authDomain struct {
	userRepo      repository.UserRepository
	userStatsRepo repository.UserStatsRepository
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	userStatsRepo repository.UserStatsRepository,
) AuthDomain {
	return &authDomain{userRepo: userRepo, userStatsRepo: userStatsRepo}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid email address")
	}

	if len(req.Password) < 8 {
		return nil, errorx.New(errorx.BadRequest, "Password must have at least 8 characters")
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash the password: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This email is already registered")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check the email: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user := &entity.User{
		Base:           entity.Base{ID: uuid.NewString()},
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: hashed,
		Role:           entity.UserRole,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user: %v", err)
		return nil, errorx.Unknown
	}

	stats := &entity.UserStats{
		UserID: user.ID,
		Points: 0,
		Level:  gamification.ComputeLevel(0).Name,
	}

	if err := d.userStatsRepo.Create(ctx, stats); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user stats: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.RegisterResponse{}, nil
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	if err := crypto.ComparePassword(user.HashedPassword, req.Password); err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	token, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the access token: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx)
	http.SetCookie(xcontext.HTTPWriter(ctx), &http.Cookie{
		Name:     cfg.Auth.AccessToken.Name,
		Value:    token,
		Expires:  time.Now().Add(cfg.Auth.AccessToken.Expiration),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Env == "prod",
	})

	return &model.LoginResponse{
		AccessToken: token,
		User:        model.ConvertUser(user),
	}, nil
}
