package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	FindFiltered(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error

	IsSerialUnique(ctx context.Context, serial string, excludeID int64) (bool, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	BrandExists(ctx context.Context, id int64) (bool, error)

	PriceRange(ctx context.Context) (*dto.PriceRange, error)
	// Search is the database fallback for full text search.
	Search(ctx context.Context, query string, limit int) ([]model.Product, error)
	// LoadRelations fills category, brand, variants and variant images in place.
	LoadRelations(ctx context.Context, products []model.Product) error
}
