package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

const EventStockAdjusted = "StockAdjusted"

type UseCase interface {
	AddStock(ctx context.Context, input *dto.AdjustStockInput) (*model.ProductVariant, error)
	ReduceStock(ctx context.Context, input *dto.AdjustStockInput) (*model.ProductVariant, error)
	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.ProductVariant, int, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, key, eventType string, payload any) error
}

type CacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}
