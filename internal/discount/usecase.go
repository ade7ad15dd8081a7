package discount

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateDiscount(ctx context.Context, input *dto.CreateDiscountInput) (*model.Discount, error)
	GetDiscount(ctx context.Context, id int64) (*model.Discount, error)
	ListDiscounts(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, error)
	DeleteDiscount(ctx context.Context, id int64) error
}
