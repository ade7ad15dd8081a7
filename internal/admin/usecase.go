package admin

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/admin/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	Setup(ctx context.Context, input *dto.CreateAdminInput) (*model.Admin, error)
	Login(ctx context.Context, input *dto.LoginInput) (*dto.Token, error)
	Register(ctx context.Context, input *dto.CreateAdminInput) (*model.Admin, error)
	GetAdmin(ctx context.Context, id int64) (*model.Admin, error)
	ChangePassword(ctx context.Context, id int64, input *dto.ChangePasswordInput) error
	ListAdmins(ctx context.Context) ([]model.Admin, error)
	UpdateAdmin(ctx context.Context, input *dto.UpdateAdminInput) (*model.Admin, error)
	DeleteAdmin(ctx context.Context, actorID, id int64) error
}

type TokenIssuer interface {
	Issue(admin *model.Admin) (string, time.Time, error)
}
