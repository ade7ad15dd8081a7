package branch

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, branch *model.Branch) error
	FindByID(ctx context.Context, id int64) (*model.Branch, error)
	FindAll(ctx context.Context) ([]model.Branch, error)
	Update(ctx context.Context, branch *model.Branch) error
	Delete(ctx context.Context, id int64) error
}
