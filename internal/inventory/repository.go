package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	FindVariant(ctx context.Context, id int64) (*model.ProductVariant, error)
	// AdjustStock applies delta atomically and returns the updated variant,
	// or nil when the variant is missing or the result would be negative.
	AdjustStock(ctx context.Context, variantID int64, delta int, at time.Time) (*model.ProductVariant, error)
	FindLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.ProductVariant, int, error)
}
