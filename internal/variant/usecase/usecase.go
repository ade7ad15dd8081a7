package usecase

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/internal/variant/dto"
)

func (uc *variantUseCase) GetVariant(ctx context.Context, id int64) (*model.ProductVariant, error) {
	v, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, postgres.TranslateError(err, "error fetching product variant")
	}
	if v == nil {
		return nil, apperr.NotFound("product variant with id %d does not exist", id)
	}
	if err := attachImages(ctx, uc.repo, v); err != nil {
		return nil, postgres.TranslateError(err, "error fetching product variant")
	}
	return v, nil
}

func (uc *variantUseCase) ListVariantsByProduct(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	variants, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, postgres.TranslateError(err, "error fetching product variants")
	}
	if variants == nil {
		return []model.ProductVariant{}, nil
	}

	ptrs := make([]*model.ProductVariant, len(variants))
	for i := range variants {
		ptrs[i] = &variants[i]
	}
	if err := attachImages(ctx, uc.repo, ptrs...); err != nil {
		return nil, postgres.TranslateError(err, "error fetching product variants")
	}
	return variants, nil
}

// UpdateVariant applies a partial update. Identity changes are not re-checked
// here; the store's uniqueness constraint rejects collisions as a Conflict.
func (uc *variantUseCase) UpdateVariant(ctx context.Context, can auth.Capability, input *dto.UpdateVariantInput) (*model.ProductVariant, error) {
	if err := auth.Require(can, model.RoleEditor); err != nil {
		return nil, err
	}
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	var updated *model.ProductVariant
	err := uc.repo.RunInTx(ctx, func(repo variant.Repository) error {
		v, err := repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if v == nil {
			return apperr.NotFound("product variant with id %d does not exist", input.ID)
		}

		if input.BranchID != nil {
			ok, err := repo.BranchExists(ctx, *input.BranchID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.NotFound("branch with id %d does not exist", *input.BranchID)
			}
			v.BranchID = input.BranchID
		}
		if input.Color != nil {
			v.Color = input.Color
		}
		if input.Size != nil {
			v.Size = input.Size
		}
		if input.SizeUnit != nil {
			v.SizeUnit = input.SizeUnit
		}
		if input.Unit != nil {
			v.Unit = input.Unit
		}
		if input.Stock != nil {
			v.Stock = *input.Stock
		}
		if input.MinStock != nil {
			v.MinStock = *input.MinStock
		}
		v.UpdatedAt = uc.now()

		if err := repo.Update(ctx, v); err != nil {
			return err
		}
		if len(input.Images) > 0 {
			if _, err := uc.appendImages(ctx, repo, v.ID, input.Images); err != nil {
				return err
			}
		}
		if err := attachImages(ctx, repo, v); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		err = postgres.TranslateError(err, "error updating product variant")
		metrics.VariantOperations.WithLabelValues("update", apperr.KindOf(err).String()).Inc()
		return nil, err
	}

	metrics.VariantOperations.WithLabelValues("update", "updated").Inc()
	uc.publish(ctx, variant.EventVariantUpdated, *updated)
	uc.invalidateProductCache(ctx)
	return updated, nil
}

func (uc *variantUseCase) DeleteVariant(ctx context.Context, can auth.Capability, id int64) error {
	if err := auth.Require(can, model.RoleAdmin); err != nil {
		return err
	}

	v, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return postgres.TranslateError(err, "error deleting product variant")
	}
	if v == nil {
		return apperr.NotFound("product variant with id %d does not exist", id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("Failed to delete variant", zap.Int64("variant_id", id), zap.Error(err))
		return postgres.TranslateError(err, "error deleting product variant")
	}

	metrics.VariantOperations.WithLabelValues("delete", "deleted").Inc()
	if uc.publisher != nil {
		payload := map[string]int64{"id": v.ID, "product_id": v.ProductID}
		if err := uc.publisher.PublishEvent(ctx, strconv.FormatInt(v.ID, 10), variant.EventVariantDeleted, payload); err != nil {
			uc.logger.Warn("Failed to publish variant event", zap.String("event_type", variant.EventVariantDeleted), zap.Error(err))
		}
	}
	uc.invalidateProductCache(ctx)
	return nil
}

func validateUpdate(input *dto.UpdateVariantInput) error {
	if input == nil || input.ID <= 0 {
		return apperr.Validation("variant id is required")
	}
	input.Color = normalizeText(input.Color)
	input.Size = normalizeText(input.Size)
	input.SizeUnit = normalizeEnum(input.SizeUnit)
	input.Unit = normalizeEnum(input.Unit)

	if input.BranchID != nil && *input.BranchID <= 0 {
		return apperr.Validation("invalid branch_id %d", *input.BranchID)
	}
	if input.Stock != nil && *input.Stock < 0 {
		return apperr.Validation("stock must be greater than or equal to 0")
	}
	if input.MinStock != nil && *input.MinStock < 0 {
		return apperr.Validation("min_stock must be greater than or equal to 0")
	}
	if err := validateAttributes(input.SizeUnit, input.Unit); err != nil {
		return err
	}
	return validateURLs(input.Images, false)
}
