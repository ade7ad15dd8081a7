package usecase

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

const maxPageSize = 100

type inventoryUseCase struct {
	repo      inventory.Repository
	cache     inventory.CacheInvalidator
	publisher inventory.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewInventoryUseCase builds the stock use case. cache and publisher may be nil.
func NewInventoryUseCase(repo inventory.Repository, cache inventory.CacheInvalidator, publisher inventory.EventPublisher, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *inventoryUseCase) AddStock(ctx context.Context, input *dto.AdjustStockInput) (*model.ProductVariant, error) {
	return uc.adjust(ctx, input, model.StockMovementIn)
}

func (uc *inventoryUseCase) ReduceStock(ctx context.Context, input *dto.AdjustStockInput) (*model.ProductVariant, error) {
	return uc.adjust(ctx, input, model.StockMovementOut)
}

func (uc *inventoryUseCase) adjust(ctx context.Context, input *dto.AdjustStockInput, movement model.StockMovementType) (*model.ProductVariant, error) {
	if input.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be greater than zero")
	}

	delta := input.Quantity
	if movement == model.StockMovementOut {
		delta = -delta
	}

	now := uc.now()
	v, err := uc.repo.AdjustStock(ctx, input.VariantID, delta, now)
	if err != nil {
		return nil, apperr.Internal(err, "adjust stock")
	}
	if v == nil {
		return nil, uc.explainRejected(ctx, input)
	}

	metrics.StockAdjustments.WithLabelValues(string(movement)).Inc()
	uc.invalidateProductCache(ctx)
	uc.publish(ctx, model.StockMovement{
		VariantID:      v.ID,
		ProductID:      v.ProductID,
		BranchID:       v.BranchID,
		MovementType:   movement,
		QuantityChange: delta,
		QuantityBefore: v.Stock - delta,
		QuantityAfter:  v.Stock,
		ReferenceType:  input.ReferenceType,
		ReferenceID:    input.ReferenceID,
		OccurredAt:     now,
	})

	return v, nil
}

// explainRejected tells a missing variant apart from insufficient stock.
func (uc *inventoryUseCase) explainRejected(ctx context.Context, input *dto.AdjustStockInput) error {
	v, err := uc.repo.FindVariant(ctx, input.VariantID)
	if err != nil {
		return apperr.Internal(err, "find variant")
	}
	if v == nil {
		return apperr.NotFound("variant %d not found", input.VariantID)
	}
	return apperr.Validation("insufficient stock: %d available, %d requested", v.Stock, input.Quantity)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.ProductVariant, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize > maxPageSize {
		return nil, 0, apperr.Validation("size must not exceed %d", maxPageSize)
	}

	items, count, err := uc.repo.FindLowStock(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list low stock")
	}
	if items == nil {
		items = []model.ProductVariant{}
	}
	return items, count, nil
}

func (uc *inventoryUseCase) publish(ctx context.Context, m model.StockMovement) {
	if uc.publisher == nil {
		return
	}
	key := strconv.FormatInt(m.VariantID, 10)
	if err := uc.publisher.PublishEvent(ctx, key, inventory.EventStockAdjusted, m); err != nil {
		uc.logger.Warn("failed to publish stock movement", zap.Int64("variant_id", m.VariantID), zap.Error(err))
	}
}

func (uc *inventoryUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.PatternProductList); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}
