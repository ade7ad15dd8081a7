package usecase

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

// appendImages stores one image row per url, in order, all stamped with the
// same persistence time. Existing images are never touched.
func (uc *variantUseCase) appendImages(ctx context.Context, repo variant.Repository, variantID int64, urls []string) ([]model.ProductImage, error) {
	if err := validateURLs(urls, true); err != nil {
		return nil, err
	}

	v, err := repo.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("product variant with id %d does not exist", variantID)
	}

	return repo.InsertImages(ctx, variantID, urls, uc.now())
}

func (uc *variantUseCase) AppendImages(ctx context.Context, can auth.Capability, variantID int64, urls []string) ([]model.ProductImage, error) {
	if err := auth.Require(can, model.RoleEditor); err != nil {
		return nil, err
	}

	var images []model.ProductImage
	err := uc.repo.RunInTx(ctx, func(repo variant.Repository) error {
		var err error
		images, err = uc.appendImages(ctx, repo, variantID, urls)
		return err
	})
	if err != nil {
		return nil, postgres.TranslateError(err, "error saving product images")
	}

	uc.invalidateProductCache(ctx)
	return images, nil
}

func (uc *variantUseCase) ListImages(ctx context.Context, variantID int64) ([]model.ProductImage, error) {
	v, err := uc.repo.FindByID(ctx, variantID)
	if err != nil {
		return nil, postgres.TranslateError(err, "error fetching product images")
	}
	if v == nil {
		return nil, apperr.NotFound("product variant with id %d does not exist", variantID)
	}

	images, err := uc.repo.ListImages(ctx, variantID)
	if err != nil {
		return nil, postgres.TranslateError(err, "error fetching product images")
	}
	if images == nil {
		images = []model.ProductImage{}
	}
	return images, nil
}

// attachImages loads the images of every variant in vs with one query.
func attachImages(ctx context.Context, repo variant.Repository, vs ...*model.ProductVariant) error {
	if len(vs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(vs))
	byID := make(map[int64]*model.ProductVariant, len(vs))
	for _, v := range vs {
		v.Images = []model.ProductImage{}
		ids = append(ids, v.ID)
		byID[v.ID] = v
	}

	images, err := repo.ListImages(ctx, ids...)
	if err != nil {
		return err
	}
	for _, img := range images {
		if v, ok := byID[img.VariantID]; ok {
			v.Images = append(v.Images, img)
		}
	}
	return nil
}
