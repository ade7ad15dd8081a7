package brand

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateBrand(ctx context.Context, input *dto.BrandInput) (*model.Brand, error)
	GetBrand(ctx context.Context, id int64) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	RenameBrand(ctx context.Context, input *dto.BrandInput) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id int64) error
}

type CacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}
