package domain

import (
	"context"
	"errors"

	"github.com/bskmt/backend/internal/common"
	"github.com/bskmt/backend/internal/domain/gamification"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/enum"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PointsDomain interface {
	Grant(ctx context.Context, req *model.GrantPointsRequest) (*model.GrantPointsResponse, error)
	Revoke(ctx context.Context, req *model.RevokePointsRequest) (*model.RevokePointsResponse, error)
	GetHistory(ctx context.Context, req *model.GetPointHistoryRequest) (*model.GetPointHistoryResponse, error)
}

type pointsDomain struct {
	pointTxRepo  repository.PointTransactionRepository
	userRepo     repository.UserRepository
	ledger       gamification.Ledger
	evaluator    gamification.Evaluator
	roleVerifier *common.GlobalRoleVerifier
}

func NewPointsDomain(
	pointTxRepo repository.PointTransactionRepository,
	userRepo repository.UserRepository,
	ledger gamification.Ledger,
	evaluator gamification.Evaluator,
) PointsDomain {
	return &pointsDomain{
		pointTxRepo:  pointTxRepo,
		userRepo:     userRepo,
		ledger:       ledger,
		evaluator:    evaluator,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *pointsDomain) Grant(
	ctx context.Context, req *model.GrantPointsRequest,
) (*model.GrantPointsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when grant points: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	reason, err := enum.ToEnum[entity.PointReason](req.Reason)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid reason: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid reason %s", req.Reason)
	}

	userID := req.UserID
	if userID == "" {
		if req.UserEmail == "" {
			return nil, errorx.New(errorx.BadRequest, "Need a user id or email")
		}

		user, err := d.userRepo.GetByEmail(ctx, req.UserEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found user")
			}

			xcontext.Logger(ctx).Errorf("Cannot get the user by email: %v", err)
			return nil, errorx.Unknown
		}

		userID = user.ID
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	tx, err := d.ledger.Grant(ctx, userID, req.Amount, reason, req.ReferenceID, req.Description)
	if err != nil {
		return nil, err
	}

	if _, err := d.evaluator.Evaluate(ctx, userID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.GrantPointsResponse{Transaction: model.ConvertPointTransaction(tx)}, nil
}

func (d *pointsDomain) Revoke(
	ctx context.Context, req *model.RevokePointsRequest,
) (*model.RevokePointsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when revoke points: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ledger.Revoke(ctx, req.TransactionID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.RevokePointsResponse{}, nil
}

func (d *pointsDomain) GetHistory(
	ctx context.Context, req *model.GetPointHistoryRequest,
) (*model.GetPointHistoryResponse, error) {
	offset, limit, err := normalizePagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	records, err := d.pointTxRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the point history: %v", err)
		return nil, errorx.Unknown
	}

	transactions := []model.PointTransaction{}
	for i := range records {
		transactions = append(transactions, model.ConvertPointTransaction(&records[i]))
	}

	return &model.GetPointHistoryResponse{Transactions: transactions}, nil
}
