package domain

import (
	"context"

	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/xcontext"
)

func normalizePagination(ctx context.Context, offset, limit int) (int, int, error) {
	if offset < 0 || limit < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Offset and limit must not be negative")
	}

	cfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = cfg.DefaultLimit
	}

	if limit > cfg.MaxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Exceeded the maximum limit of %d", cfg.MaxLimit)
	}

	return offset, limit, nil
}
