package gamification

import (
	"context"
	"errors"

	"github.com/bskmt/backend/internal/common"
	"github.com/bskmt/backend/internal/domain/statistic"
	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/internal/repository"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger is the single write path of the point balance. Every change of a
// balance goes through a ledger row, the UserStats aggregate never diverges
// from the sum of active rows.
//
// The methods do not begin a database transaction on their own, the caller
// decides the transaction boundary.
type Ledger interface {
	// Grant awards points to a user. A second grant with the same reason and
	// reference returns the first transaction without changing anything.
	Grant(
		ctx context.Context,
		userID string, amount uint64,
		reason entity.PointReason, referenceID, description string,
	) (*entity.PointTransaction, error)

	// Deduct spends points of a user. It fails if the balance is not enough.
	Deduct(
		ctx context.Context,
		userID string, amount uint64,
		reason entity.PointReason, referenceID, description string,
	) (*entity.PointTransaction, error)

	// Revoke deactivates a granted transaction and takes the points back.
	// Revoking an already revoked transaction is a no-op.
	Revoke(ctx context.Context, transactionID string) error

	// RevokeByReference revokes the active grant matching the reference. It
	// is a no-op when no grant matches.
	RevokeByReference(
		ctx context.Context,
		userID string, reason entity.PointReason, referenceID string,
	) error
}

type ledger struct {
	userStatsRepo repository.UserStatsRepository
	pointTxRepo   repository.PointTransactionRepository
	leaderboard   statistic.Leaderboard
}

func NewLedger(
	userStatsRepo repository.UserStatsRepository,
	pointTxRepo repository.PointTransactionRepository,
	leaderboard statistic.Leaderboard,
) *ledger {
	return &ledger{
		userStatsRepo: userStatsRepo,
		pointTxRepo:   pointTxRepo,
		leaderboard:   leaderboard,
	}
}

func (l *ledger) Grant(
	ctx context.Context,
	userID string, amount uint64,
	reason entity.PointReason, referenceID, description string,
) (*entity.PointTransaction, error) {
	if amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "A grant needs a positive amount")
	}

	if referenceID != "" {
		existing, err := l.pointTxRepo.GetActiveByReference(ctx, userID, reason, referenceID)
		if err == nil {
			return existing, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check the reference of grant: %v", err)
			return nil, errorx.Unknown
		}
	}

	tx := &entity.PointTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		Amount:      int64(amount),
		Reason:      reason,
		ReferenceID: referenceID,
		Description: description,
		Active:      true,
	}

	if err := l.pointTxRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the grant transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := l.increasePoints(ctx, userID, amount); err != nil {
		return nil, err
	}

	if err := l.syncLevel(ctx, userID); err != nil {
		return nil, err
	}

	if err := l.leaderboard.ChangePoints(ctx, int64(amount), userID); err != nil {
		return nil, err
	}

	common.PromCounters[common.PointGrantTotal].WithLabelValues(string(reason)).Inc()
	return tx, nil
}

func (l *ledger) Deduct(
	ctx context.Context,
	userID string, amount uint64,
	reason entity.PointReason, referenceID, description string,
) (*entity.PointTransaction, error) {
	if amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "A deduction needs a positive amount")
	}

	err := l.userStatsRepo.DecreasePoints(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientPoints, "Not enough points")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease points: %v", err)
		return nil, errorx.Unknown
	}

	tx := &entity.PointTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		Amount:      -int64(amount),
		Reason:      reason,
		ReferenceID: referenceID,
		Description: description,
		Active:      true,
	}

	if err := l.pointTxRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the deduction transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := l.syncLevel(ctx, userID); err != nil {
		return nil, err
	}

	if err := l.leaderboard.ChangePoints(ctx, -int64(amount), userID); err != nil {
		return nil, err
	}

	return tx, nil
}

func (l *ledger) Revoke(ctx context.Context, transactionID string) error {
	tx, err := l.pointTxRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found transaction")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the transaction: %v", err)
		return errorx.Unknown
	}

	if tx.Amount <= 0 {
		return errorx.New(errorx.BadRequest, "Only a grant can be revoked")
	}

	if err := l.pointTxRepo.Deactivate(ctx, tx.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already revoked.
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot deactivate the transaction: %v", err)
		return errorx.Unknown
	}

	// If some of the granted points were spent in the meantime, take back
	// what remains.
	removed := uint64(tx.Amount)
	if err := l.userStatsRepo.DecreasePoints(ctx, tx.UserID, removed); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot decrease points: %v", err)
			return errorx.Unknown
		}

		stats, err := l.userStatsRepo.Get(ctx, tx.UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get the user stats: %v", err)
			return errorx.Unknown
		}

		removed = stats.Points
		if removed > 0 {
			if err := l.userStatsRepo.DecreasePoints(ctx, tx.UserID, removed); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot zero the points: %v", err)
				return errorx.Unknown
			}
		}
	}

	// The reversing row is an inactive audit record, the active rows keep
	// summing up to the balance.
	reversal := &entity.PointTransaction{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      tx.UserID,
		Amount:      -int64(removed),
		Reason:      entity.RevocationReason,
		ReferenceID: tx.ID,
		Description: "Revocation of " + tx.ID,
		Active:      false,
	}

	if err := l.pointTxRepo.Create(ctx, reversal); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the reversing transaction: %v", err)
		return errorx.Unknown
	}

	if err := l.syncLevel(ctx, tx.UserID); err != nil {
		return err
	}

	if err := l.leaderboard.ChangePoints(ctx, -int64(removed), tx.UserID); err != nil {
		return err
	}

	return nil
}

func (l *ledger) RevokeByReference(
	ctx context.Context,
	userID string, reason entity.PointReason, referenceID string,
) error {
	tx, err := l.pointTxRepo.GetActiveByReference(ctx, userID, reason, referenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get the transaction by reference: %v", err)
		return errorx.Unknown
	}

	return l.Revoke(ctx, tx.ID)
}

func (l *ledger) increasePoints(ctx context.Context, userID string, amount uint64) error {
	err := l.userStatsRepo.IncreasePoints(ctx, userID, amount)
	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot increase points: %v", err)
		return errorx.Unknown
	}

	stats := &entity.UserStats{
		UserID: userID,
		Points: amount,
		Level:  ComputeLevel(amount).Name,
	}

	if err := l.userStatsRepo.Create(ctx, stats); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user stats: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (l *ledger) syncLevel(ctx context.Context, userID string) error {
	stats, err := l.userStatsRepo.Get(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user stats: %v", err)
		return errorx.Unknown
	}

	level := ComputeLevel(stats.Points)
	if level.Name == stats.Level {
		return nil
	}

	if err := l.userStatsRepo.UpdateLevel(ctx, userID, level.Name); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the level: %v", err)
		return errorx.Unknown
	}

	return nil
}
