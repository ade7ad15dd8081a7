package admin

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByID(ctx context.Context, id int64) (*model.Admin, error)
	// FindByIdentifier matches the username or the email.
	FindByIdentifier(ctx context.Context, identifier string) (*model.Admin, error)
	FindAll(ctx context.Context) ([]model.Admin, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, admin *model.Admin) error
	Delete(ctx context.Context, id int64) error
}
