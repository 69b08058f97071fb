package domain

import (
	"context"
	"errors"

	"github.com/bskmt/backend/internal/common"
	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateRole(ctx context.Context, req *model.UpdateUserRoleRequest) (*model.UpdateUserRoleResponse, error)
}

type userDomain struct {
	userRepo      repository.UserRepository
	userStatsRepo repository.UserStatsRepository
	leaderboard   statistic.Leaderboard
	roleVerifier  *common.GlobalRoleVerifier
}

func NewUserDomain(
	userRepo repository.UserRepository,
	userStatsRepo repository.UserStatsRepository,
	leaderboard statistic.Leaderboard,
) UserDomain {
	return &userDomain{
		userRepo:      userRepo,
		userStatsRepo: userStatsRepo,
		leaderboard:   leaderboard,
		roleVerifier:  common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, stats, err := d.load(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &model.GetMeResponse{User: model.ConvertUser(user), Stats: stats}, nil
}

func (d *userDomain) GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error) {
	user, stats, err := d.load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	return &model.GetUserResponse{User: model.ConvertUser(user), Stats: stats}, nil
}

func (d *userDomain) UpdateRole(
	ctx context.Context, req *model.UpdateUserRoleRequest,
) (*model.UpdateUserRoleResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.SuperAdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when update role: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	validRoles := []string{entity.SuperAdminRole, entity.AdminRole, entity.UserRole}
	if !slices.Contains(validRoles, req.Role) {
		return nil, errorx.New(errorx.BadRequest, "Invalid role %s", req.Role)
	}

	err := d.userRepo.UpdateByID(ctx, req.UserID, &entity.User{Role: req.Role})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the role: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserRoleResponse{}, nil
}

func (d *userDomain) load(ctx context.Context, userID string) (*entity.User, model.UserStats, error) {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.UserStats{}, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, model.UserStats{}, errorx.Unknown
	}

	stats := model.UserStats{
		UserID: user.ID,
		Level:  gamification.ComputeLevel(0).Name,
	}

	record, err := d.userStatsRepo.Get(ctx, userID)
	if err == nil {
		stats.Points = record.Points
		stats.Level = record.Level
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get the user stats: %v", err)
		return nil, model.UserStats{}, errorx.Unknown
	}

	if next, ok := gamification.NextLevel(stats.Points); ok {
		stats.NextLevel = next.Name
		stats.PointsToNext = next.Threshold - stats.Points
	}

	if rank, err := d.leaderboard.GetRank(ctx, userID); err == nil {
		stats.Rank = rank
	}

	return user, stats, nil
}
