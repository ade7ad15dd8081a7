package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/discount"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

var maxPercentage = decimal.NewFromInt(100)

type discountUseCase struct {
	repo   discount.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewDiscountUseCase(repo discount.Repository, log logger.ZapLogger) discount.UseCase {
	return &discountUseCase{repo: repo, logger: log, now: time.Now}
}

func (uc *discountUseCase) CreateDiscount(ctx context.Context, input *dto.CreateDiscountInput) (*model.Discount, error) {
	if err := validateDiscount(input); err != nil {
		return nil, err
	}

	now := uc.now()
	d := &model.Discount{
		BaseModel:    model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:         strings.TrimSpace(input.Name),
		DiscountType: input.DiscountType,
		Value:        input.Value,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsActive:     true,
		ProductID:    input.ProductID,
		CategoryID:   input.CategoryID,
	}
	if input.IsActive != nil {
		d.IsActive = *input.IsActive
	}

	// Unknown product or category ids surface as FK violations.
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, postgres.TranslateError(err, "create discount")
	}
	return d, nil
}

func validateDiscount(in *dto.CreateDiscountInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if !in.DiscountType.Valid() {
		return apperr.Validation("discount_type must be percentage or fixed")
	}
	if in.Value.IsNegative() {
		return apperr.Validation("value must not be negative")
	}
	if in.DiscountType == model.DiscountPercentage && in.Value.GreaterThan(maxPercentage) {
		return apperr.Validation("percentage discount must not exceed 100")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return apperr.Validation("end_date must not be before start_date")
	}
	return nil
}

func (uc *discountUseCase) GetDiscount(ctx context.Context, id int64) (*model.Discount, error) {
	d, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find discount")
	}
	if d == nil {
		return nil, apperr.NotFound("discount %d not found", id)
	}
	return d, nil
}

func (uc *discountUseCase) ListDiscounts(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, error) {
	discounts, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, apperr.Internal(err, "list discounts")
	}
	if discounts == nil {
		discounts = []model.Discount{}
	}
	return discounts, nil
}

func (uc *discountUseCase) DeleteDiscount(ctx context.Context, id int64) error {
	if _, err := uc.GetDiscount(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return postgres.TranslateError(err, "delete discount")
	}
	return nil
}
