package domain

import (
	"context"
	"time"

	"github.com/bskmt/backend/internal/common"
	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/enum"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type AchievementDomain interface {
	GetList(ctx context.Context, req *model.GetAchievementsRequest) (*model.GetAchievementsResponse, error)
	GetMine(ctx context.Context, req *model.GetMyAchievementsRequest) (*model.GetMyAchievementsResponse, error)
	Verify(ctx context.Context, req *model.VerifyAchievementsRequest) (*model.VerifyAchievementsResponse, error)
	Create(ctx context.Context, req *model.CreateAchievementRequest) (*model.CreateAchievementResponse, error)
}

type achievementDomain struct {
	achievementRepo     repository.AchievementRepository
	userAchievementRepo repository.UserAchievementRepository
	evaluator           gamification.Evaluator
	roleVerifier        *common.GlobalRoleVerifier
}

func NewAchievementDomain(
	achievementRepo repository.AchievementRepository,
	userAchievementRepo repository.UserAchievementRepository,
	userRepo repository.UserRepository,
	evaluator gamification.Evaluator,
) AchievementDomain {
	return &achievementDomain{
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
		evaluator:           evaluator,
		roleVerifier:        common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *achievementDomain) GetList(
	ctx context.Context, req *model.GetAchievementsRequest,
) (*model.GetAchievementsResponse, error) {
	records, err := d.achievementRepo.GetActiveList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the achievement catalog: %v", err)
		return nil, errorx.Unknown
	}

	achievements := []model.Achievement{}
	for i := range records {
		achievements = append(achievements, model.ConvertAchievement(&records[i], time.Time{}))
	}

	return &model.GetAchievementsResponse{Achievements: achievements}, nil
}

func (d *achievementDomain) GetMine(
	ctx context.Context, req *model.GetMyAchievementsRequest,
) (*model.GetMyAchievementsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	catalog, err := d.achievementRepo.GetActiveList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the achievement catalog: %v", err)
		return nil, errorx.Unknown
	}

	records, err := d.userAchievementRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the unlocked achievements: %v", err)
		return nil, errorx.Unknown
	}

	unlocks := make(map[string]entity.UserAchievement, len(records))
	for _, record := range records {
		unlocks[record.AchievementID] = record
	}

	achievements := []model.Achievement{}
	for i := range catalog {
		achievement := &catalog[i]
		if unlock, ok := unlocks[achievement.ID]; ok {
			converted := model.ConvertAchievement(achievement, unlock.UnlockedAt)
			converted.Progress = &model.AchievementProgress{
				Current: unlock.ProgressCurrent,
				Total:   unlock.ProgressTotal,
			}
			converted.WasNotified = unlock.WasNotified
			achievements = append(achievements, converted)
			continue
		}

		current, total, err := d.evaluator.Progress(ctx, userID, achievement)
		if err != nil {
			xcontext.Logger(ctx).Debugf(
				"Cannot compute progress of achievement %s: %v", achievement.ID, err)
			current, total = 0, achievement.ConditionValue
		}

		converted := model.ConvertAchievement(achievement, time.Time{})
		converted.Progress = &model.AchievementProgress{Current: current, Total: total}
		achievements = append(achievements, converted)
	}

	// A fresh unlock is reported with was_notified false exactly once.
	if err := d.userAchievementRepo.MarkNotified(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot flag the notified achievements: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyAchievementsResponse{Achievements: achievements}, nil
}

func (d *achievementDomain) Verify(
	ctx context.Context, req *model.VerifyAchievementsRequest,
) (*model.VerifyAchievementsResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	records, err := d.evaluator.Evaluate(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	now := time.Now()
	unlocked := []model.Achievement{}
	for i := range records {
		converted := model.ConvertAchievement(&records[i], now)
		converted.Progress = &model.AchievementProgress{
			Current: records[i].ConditionValue,
			Total:   records[i].ConditionValue,
		}
		unlocked = append(unlocked, converted)
	}

	return &model.VerifyAchievementsResponse{Unlocked: unlocked}, nil
}

func (d *achievementDomain) Create(
	ctx context.Context, req *model.CreateAchievementRequest,
) (*model.CreateAchievementResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when create achievement: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	condition, err := enum.ToEnum[entity.AchievementCondition](req.Condition)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid condition: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid condition %s", req.Condition)
	}

	operator, err := enum.ToEnum[entity.ConditionOperator](req.Operator)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid operator: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid operator %s", req.Operator)
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	achievement := &entity.Achievement{
		Base:           entity.Base{ID: uuid.NewString()},
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Icon:           req.Icon,
		BonusPoints:    req.BonusPoints,
		Condition:      condition,
		Operator:       operator,
		ConditionValue: req.ConditionValue,
		Active:         true,
	}

	if err := d.achievementRepo.Create(ctx, achievement); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the achievement: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateAchievementResponse{ID: achievement.ID}, nil
}
