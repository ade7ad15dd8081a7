package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/brand"
	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type brandUseCase struct {
	repo   brand.Repository
	cache  brand.CacheInvalidator
	logger logger.ZapLogger
}

func NewBrandUseCase(repo brand.Repository, cache brand.CacheInvalidator, log logger.ZapLogger) brand.UseCase {
	return &brandUseCase{repo: repo, cache: cache, logger: log}
}

func (uc *brandUseCase) CreateBrand(ctx context.Context, input *dto.BrandInput) (*model.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	now := time.Now()
	b := &model.Brand{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:      name,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, postgres.TranslateError(err, "create brand")
	}
	return b, nil
}

func (uc *brandUseCase) GetBrand(ctx context.Context, id int64) (*model.Brand, error) {
	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find brand")
	}
	if b == nil {
		return nil, apperr.NotFound("brand %d not found", id)
	}
	return b, nil
}

func (uc *brandUseCase) ListBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list brands")
	}
	if brands == nil {
		brands = []model.Brand{}
	}
	return brands, nil
}

func (uc *brandUseCase) RenameBrand(ctx context.Context, input *dto.BrandInput) (*model.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	b, err := uc.GetBrand(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	b.Name = name
	b.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, postgres.TranslateError(err, "update brand")
	}
	uc.invalidateProductCache(ctx)
	return b, nil
}

func (uc *brandUseCase) DeleteBrand(ctx context.Context, id int64) error {
	if _, err := uc.GetBrand(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return postgres.TranslateError(err, "delete brand")
	}
	uc.invalidateProductCache(ctx)
	return nil
}

func (uc *brandUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.PatternProductList); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}
