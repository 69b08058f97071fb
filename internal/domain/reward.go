package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bskmt/backend/internal/common"
	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardDomain interface {
	GetList(ctx context.Context, req *model.GetRewardsRequest) (*model.GetRewardsResponse, error)
	Create(ctx context.Context, req *model.CreateRewardRequest) (*model.CreateRewardResponse, error)
	Redeem(ctx context.Context, req *model.RedeemRewardRequest) (*model.RedeemRewardResponse, error)
	Cancel(ctx context.Context, req *model.CancelRedemptionRequest) (*model.CancelRedemptionResponse, error)
	Fulfill(ctx context.Context, req *model.FulfillRedemptionRequest) (*model.FulfillRedemptionResponse, error)
	GetMyRedemptions(ctx context.Context, req *model.GetMyRedemptionsRequest) (*model.GetMyRedemptionsResponse, error)
}

type rewardDomain struct {
	rewardRepo     repository.RewardRepository
	redemptionRepo repository.RedemptionRepository
	ledger         gamification.Ledger
	evaluator      gamification.Evaluator
	roleVerifier   *common.GlobalRoleVerifier
}

func NewRewardDomain(
	rewardRepo repository.RewardRepository,
	redemptionRepo repository.RedemptionRepository,
	userRepo repository.UserRepository,
	ledger gamification.Ledger,
	evaluator gamification.Evaluator,
) RewardDomain {
	return &rewardDomain{
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		ledger:         ledger,
		evaluator:      evaluator,
		roleVerifier:   common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *rewardDomain) GetList(
	ctx context.Context, req *model.GetRewardsRequest,
) (*model.GetRewardsResponse, error) {
	offset, limit, err := normalizePagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	records, err := d.rewardRepo.GetActiveList(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the reward list: %v", err)
		return nil, errorx.Unknown
	}

	rewards := []model.Reward{}
	for i := range records {
		rewards = append(rewards, model.ConvertReward(&records[i]))
	}

	return &model.GetRewardsResponse{Rewards: rewards}, nil
}

func (d *rewardDomain) Create(
	ctx context.Context, req *model.CreateRewardRequest,
) (*model.CreateRewardResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when create reward: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	if req.Cost == 0 {
		return nil, errorx.New(errorx.BadRequest, "A reward needs a positive cost")
	}

	if req.Stock != nil && *req.Stock < 0 {
		return nil, errorx.New(errorx.BadRequest, "Stock must not be negative")
	}

	reward := &entity.Reward{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Name,
		Description: req.Description,
		Metadata:    req.Metadata,
		Cost:        req.Cost,
		Stock:       req.Stock,
		Active:      true,
	}

	if err := d.rewardRepo.Create(ctx, reward); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateRewardResponse{ID: reward.ID}, nil
}

func (d *rewardDomain) Redeem(
	ctx context.Context, req *model.RedeemRewardRequest,
) (*model.RedeemRewardResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	reward, err := d.rewardRepo.GetByID(ctx, req.RewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the reward: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.rewardRepo.DecrementStock(ctx, reward.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RewardUnavailable, "The reward is not available")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrement the stock: %v", err)
		return nil, errorx.Unknown
	}

	redemption := &entity.Redemption{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   userID,
		RewardID: reward.ID,
		Cost:     reward.Cost,
		Status:   entity.RedemptionPending,
	}

	_, err = d.ledger.Deduct(
		ctx, userID, reward.Cost,
		entity.RewardRedemptionReason, redemption.ID,
		fmt.Sprintf("Redemption of reward %s", reward.Name),
	)
	if err != nil {
		return nil, err
	}

	if err := d.redemptionRepo.Create(ctx, redemption); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the redemption: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.evaluator.Evaluate(ctx, userID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	common.PromCounters[common.RewardRedemptionTotal].
		WithLabelValues(string(entity.RedemptionPending)).Inc()

	return &model.RedeemRewardResponse{Redemption: model.ConvertRedemption(redemption)}, nil
}

func (d *rewardDomain) Cancel(
	ctx context.Context, req *model.CancelRedemptionRequest,
) (*model.CancelRedemptionResponse, error) {
	redemption, err := d.redemptionRepo.GetByID(ctx, req.RedemptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found redemption")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the redemption: %v", err)
		return nil, errorx.Unknown
	}

	if redemption.UserID != xcontext.RequestUserID(ctx) {
		if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.redemptionRepo.UpdateStatus(
		ctx, redemption.ID, entity.RedemptionPending, entity.RedemptionCancelled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Only a pending redemption can be cancelled")
		}

		xcontext.Logger(ctx).Errorf("Cannot cancel the redemption: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.rewardRepo.IncrementStock(ctx, redemption.RewardID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot restock the reward: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.ledger.Grant(
		ctx, redemption.UserID, redemption.Cost,
		entity.RedemptionRefundReason, redemption.ID,
		fmt.Sprintf("Refund of redemption %s", redemption.ID),
	)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	common.PromCounters[common.RewardRedemptionTotal].
		WithLabelValues(string(entity.RedemptionCancelled)).Inc()

	return &model.CancelRedemptionResponse{}, nil
}

func (d *rewardDomain) Fulfill(
	ctx context.Context, req *model.FulfillRedemptionRequest,
) (*model.FulfillRedemptionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when fulfill redemption: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	err := d.redemptionRepo.UpdateStatus(
		ctx, req.RedemptionID, entity.RedemptionPending, entity.RedemptionFulfilled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Only a pending redemption can be fulfilled")
		}

		xcontext.Logger(ctx).Errorf("Cannot fulfill the redemption: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.RewardRedemptionTotal].
		WithLabelValues(string(entity.RedemptionFulfilled)).Inc()

	return &model.FulfillRedemptionResponse{}, nil
}

func (d *rewardDomain) GetMyRedemptions(
	ctx context.Context, req *model.GetMyRedemptionsRequest,
) (*model.GetMyRedemptionsResponse, error) {
	offset, limit, err := normalizePagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	records, err := d.redemptionRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the redemption list: %v", err)
		return nil, errorx.Unknown
	}

	redemptions := []model.Redemption{}
	for i := range records {
		redemptions = append(redemptions, model.ConvertRedemption(&records[i]))
	}

	return &model.GetMyRedemptionsResponse{Redemptions: redemptions}, nil
}
