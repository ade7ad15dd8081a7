package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

const maxPageSize = 100

type categoryUseCase struct {
	repo   category.Repository
	cache  category.CacheInvalidator
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, cache category.CacheInvalidator, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        name,
		Description: input.Description,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, postgres.TranslateError(err, "create category")
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find category")
	}
	if cat == nil {
		return nil, apperr.NotFound("category %d not found", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	if filters.PageSize > maxPageSize {
		return nil, 0, apperr.Validation("size must not exceed %d", maxPageSize)
	}
	if filters.PageSize > 0 && filters.Page < 1 {
		filters.Page = 1
	}

	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list categories")
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, count, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		cat.Name = strings.TrimSpace(*input.Name)
		if cat.Name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
	}
	if input.Description != nil {
		cat.Description = input.Description
	}
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, postgres.TranslateError(err, "update category")
	}
	uc.invalidateProductCache(ctx)
	return cat, nil
}

// DeleteCategory fails with a validation error while products still reference it.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := uc.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return postgres.TranslateError(err, "delete category")
	}
	uc.invalidateProductCache(ctx)
	return nil
}

func (uc *categoryUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.PatternProductList); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}
