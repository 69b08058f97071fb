package migration

import (
	"context"
	"errors"
	"time"

	"github.com/bskmt/backend/internal/entity"
	"github.com/bskmt/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type version struct {
	name  string
	apply func(ctx context.Context) error
}

// Ordered, never reorder or remove an applied version.
var versions = []version{
	{name: "0001_seed_achievements", apply: seedAchievements},
}

// Migrate brings the schema up to date and applies every data migration that
// has not run yet. Each version runs inside its own transaction.
func Migrate(ctx context.Context) error {
	if err := entity.MigrateTable(xcontext.DB(ctx)); err != nil {
		return err
	}

	for _, v := range versions {
		var record entity.Migration
		err := xcontext.DB(ctx).Where("version=?", v.name).Take(&record).Error
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ctx := xcontext.WithDBTransaction(ctx)
		if err := v.apply(ctx); err != nil {
			xcontext.WithRollbackDBTransaction(ctx)
			return err
		}

		applied := &entity.Migration{Version: v.name, AppliedAt: time.Now()}
		if err := xcontext.DB(ctx).Create(applied).Error; err != nil {
			xcontext.WithRollbackDBTransaction(ctx)
			return err
		}

		xcontext.WithCommitDBTransaction(ctx)
		xcontext.Logger(ctx).Infof("Applied migration %s", v.name)
	}

	return nil
}
