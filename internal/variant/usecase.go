package variant

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant/dto"
)

type UseCase interface {
	CreateVariants(ctx context.Context, can auth.Capability, input *dto.VariantBatchInput) ([]model.ProductVariant, error)
	UpsertVariants(ctx context.Context, can auth.Capability, input *dto.VariantBatchInput) ([]model.ProductVariant, error)
	UpdateVariant(ctx context.Context, can auth.Capability, input *dto.UpdateVariantInput) (*model.ProductVariant, error)
	DeleteVariant(ctx context.Context, can auth.Capability, id int64) error

	GetVariant(ctx context.Context, id int64) (*model.ProductVariant, error)
	ListVariantsByProduct(ctx context.Context, productID int64) ([]model.ProductVariant, error)

	AppendImages(ctx context.Context, can auth.Capability, variantID int64, urls []string) ([]model.ProductImage, error)
	ListImages(ctx context.Context, variantID int64) ([]model.ProductImage, error)
}
