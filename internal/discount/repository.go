package discount

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, discount *model.Discount) error
	FindByID(ctx context.Context, id int64) (*model.Discount, error)
	FindAll(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, error)
	Delete(ctx context.Context, id int64) error
}
