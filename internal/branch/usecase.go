package branch

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/branch/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateBranch(ctx context.Context, input *dto.CreateBranchInput) (*model.Branch, error)
	GetBranch(ctx context.Context, id int64) (*model.Branch, error)
	ListBranches(ctx context.Context) ([]model.Branch, error)
	UpdateBranch(ctx context.Context, input *dto.UpdateBranchInput) (*model.Branch, error)
	DeleteBranch(ctx context.Context, id int64) error
}
