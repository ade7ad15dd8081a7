package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

const (
	indexName = "products"

	maxPageSize    = 100
	maxSearchLimit = 100
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"serial_number": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"retail_price": { "type": "double" },
			"status": { "type": "keyword" },
			"category_id": { "type": "long" },
			"brand_id": { "type": "long" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo   product.Repository
	cache  product.Cache
	es     product.Searcher
	logger logger.ZapLogger
	now    func() time.Time
}

// NewProductUseCase builds the catalog query layer. cache and es may be nil.
func NewProductUseCase(repo product.Repository, cache product.Cache, es product.Searcher, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
		now:    time.Now,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	now := uc.now()
	p := &model.Product{
		BaseModel:    model.BaseModel{CreatedAt: now, UpdatedAt: now},
		SerialNumber: strings.TrimSpace(input.SerialNumber),
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		WarrantyTime: input.WarrantyTime,
		WarrantyUnit: input.WarrantyUnit,
		Cost:         input.Cost,
		RetailPrice:  input.RetailPrice,
		Status:       model.ProductStatusActive,
		CategoryID:   input.CategoryID,
		BrandID:      input.BrandID,
	}
	if input.Status != nil {
		p.Status = *input.Status
	}

	if p.SerialNumber == "" {
		return nil, apperr.Validation("serial_number is required")
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, p); err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsSerialUnique(ctx, p.SerialNumber, 0)
	if err != nil {
		return nil, apperr.Internal(err, "check serial number")
	}
	if !unique {
		return nil, apperr.Conflict("a product with the same serial number already exists")
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, postgres.TranslateError(err, "create product")
	}
	p.Variants = []model.ProductVariant{}

	uc.invalidateProductCache(ctx)
	go uc.syncToElastic(context.Background(), *p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find product")
	}
	if p == nil {
		return nil, apperr.NotFound("product %d not found", id)
	}

	products := []model.Product{*p}
	if err := uc.repo.LoadRelations(ctx, products); err != nil {
		return nil, apperr.Internal(err, "load product relations")
	}
	return &products[0], nil
}

func (uc *productUseCase) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list products")
	}
	if products == nil {
		products = []model.Product{}
	}
	if err := uc.repo.LoadRelations(ctx, products); err != nil {
		return nil, apperr.Internal(err, "load product relations")
	}
	return products, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) (*dto.ProductPage, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	// 1. Generate Cache Key
	cacheKey, err := generateCacheKey(filters)
	if err != nil {
		cacheKey = ""
	}

	// 2. Check Cache
	if uc.cache != nil && cacheKey != "" {
		var cached dto.ProductPage
		hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			uc.logger.Warn("product list cache read failed", zap.Error(err))
		}
		if hit {
			metrics.ProductListCache.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		metrics.ProductListCache.WithLabelValues("miss").Inc()
	}

	// 3. DB Query
	products, total, err := uc.repo.FindFiltered(ctx, filters)
	if err != nil {
		return nil, apperr.Internal(err, "list products")
	}
	if products == nil {
		products = []model.Product{}
	}
	if err := uc.repo.LoadRelations(ctx, products); err != nil {
		return nil, apperr.Internal(err, "load product relations")
	}

	page := &dto.ProductPage{
		Products: products,
		Total:    total,
		Page:     filters.Page,
		Size:     filters.PageSize,
		Pages:    (total + filters.PageSize - 1) / filters.PageSize,
	}

	// 4. Set Cache
	if uc.cache != nil && cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, page, cache.TTLProductList); err != nil {
			uc.logger.Warn("product list cache write failed", zap.Error(err))
		}
	}

	return page, nil
}

func validateFilters(f *dto.ProductFilters) error {
	if f.Page < 1 {
		return apperr.Validation("page must be at least 1")
	}
	if f.PageSize < 1 || f.PageSize > maxPageSize {
		return apperr.Validation("size must be between 1 and %d", maxPageSize)
	}
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		return apperr.Validation("min_price must not be negative")
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		return apperr.Validation("max_price must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return apperr.Validation("min_price must not exceed max_price")
	}
	return nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return cache.ProductListKey(fmt.Sprintf("%x", md5.Sum(data))), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.PatternProductList); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}

func (uc *productUseCase) PriceRange(ctx context.Context) (*dto.PriceRange, error) {
	r, err := uc.repo.PriceRange(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "price range")
	}
	return r, nil
}

// SearchProducts queries the search index and falls back to the database when
// the index is not configured or fails.
func (uc *productUseCase) SearchProducts(ctx context.Context, query string, limit int) ([]model.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("q is required")
	}
	if limit < 1 || limit > maxSearchLimit {
		return nil, apperr.Validation("limit must be between 1 and %d", maxSearchLimit)
	}

	if uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":     query,
					"fields":    []string{"name^3", "serial_number", "description"},
					"fuzziness": "AUTO",
				},
			},
			"size": limit,
		}
		res, err := uc.es.Search(ctx, indexName, q)
		if err == nil {
			products := make([]model.Product, 0, len(res.Hits.Hits))
			for _, hit := range res.Hits.Hits {
				var p model.Product
				if err := json.Unmarshal(hit.Source, &p); err == nil {
					products = append(products, p)
				}
			}
			return products, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, err := uc.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, apperr.Internal(err, "search products")
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperr.Internal(err, "find product")
	}
	if p == nil {
		return nil, apperr.NotFound("product %d not found", input.ID)
	}

	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.WarrantyTime != nil {
		p.WarrantyTime = input.WarrantyTime
	}
	if input.WarrantyUnit != nil {
		p.WarrantyUnit = input.WarrantyUnit
	}
	if input.Cost != nil {
		p.Cost = *input.Cost
	}
	if input.RetailPrice != nil {
		p.RetailPrice = *input.RetailPrice
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
	if input.CategoryID != nil {
		p.CategoryID = input.CategoryID
	}
	if input.BrandID != nil {
		p.BrandID = input.BrandID
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, p); err != nil {
		return nil, err
	}

	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, postgres.TranslateError(err, "update product")
	}

	uc.invalidateProductCache(ctx)
	go uc.syncToElastic(context.Background(), *p)

	return uc.GetProduct(ctx, p.ID)
}

// DeleteProduct removes the product together with its variants and images.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal(err, "find product")
	}
	if p == nil {
		return apperr.NotFound("product %d not found", id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return postgres.TranslateError(err, "delete product")
	}

	uc.invalidateProductCache(ctx)
	if uc.es != nil {
		go func() {
			err := uc.es.Delete(context.Background(), indexName, strconv.FormatInt(id, 10))
			if err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}

func validateProduct(p *model.Product) error {
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if p.Cost.IsNegative() {
		return apperr.Validation("cost must not be negative")
	}
	if p.RetailPrice.IsNegative() {
		return apperr.Validation("retail_price must not be negative")
	}
	if !p.Status.Valid() {
		return apperr.Validation("invalid status %q", p.Status)
	}
	if p.WarrantyTime != nil && *p.WarrantyTime < 0 {
		return apperr.Validation("warranty_time must not be negative")
	}
	if p.WarrantyUnit != nil && !p.WarrantyUnit.Valid() {
		return apperr.Validation("invalid warranty_unit %q", *p.WarrantyUnit)
	}
	return nil
}

func (uc *productUseCase) checkReferences(ctx context.Context, p *model.Product) error {
	if p.CategoryID != nil {
		ok, err := uc.repo.CategoryExists(ctx, *p.CategoryID)
		if err != nil {
			return apperr.Internal(err, "check category")
		}
		if !ok {
			return apperr.NotFound("category %d not found", *p.CategoryID)
		}
	}
	if p.BrandID != nil {
		ok, err := uc.repo.BrandExists(ctx, *p.BrandID)
		if err != nil {
			return apperr.Internal(err, "check brand")
		}
		if !ok {
			return apperr.NotFound("brand %d not found", *p.BrandID)
		}
	}
	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	p.Category, p.Brand, p.Variants = nil, nil, nil
	if err := uc.es.Index(ctx, indexName, strconv.FormatInt(p.ID, 10), p); err != nil {
		uc.logger.Error("failed to index product", zap.Int64("product_id", p.ID), zap.Error(err))
	}
}
