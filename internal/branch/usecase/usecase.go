package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/branch"
	"github.com/fekuna/omnipos-catalog-service/internal/branch/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type branchUseCase struct {
	repo   branch.Repository
	logger logger.ZapLogger
}

func NewBranchUseCase(repo branch.Repository, log logger.ZapLogger) branch.UseCase {
	return &branchUseCase{repo: repo, logger: log}
}

func (uc *branchUseCase) CreateBranch(ctx context.Context, input *dto.CreateBranchInput) (*model.Branch, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	now := time.Now()
	b := &model.Branch{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:      name,
		Location:  input.Location,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, postgres.TranslateError(err, "create branch")
	}
	return b, nil
}

func (uc *branchUseCase) GetBranch(ctx context.Context, id int64) (*model.Branch, error) {
	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find branch")
	}
	if b == nil {
		return nil, apperr.NotFound("branch %d not found", id)
	}
	return b, nil
}

func (uc *branchUseCase) ListBranches(ctx context.Context) ([]model.Branch, error) {
	branches, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list branches")
	}
	if branches == nil {
		branches = []model.Branch{}
	}
	return branches, nil
}

func (uc *branchUseCase) UpdateBranch(ctx context.Context, input *dto.UpdateBranchInput) (*model.Branch, error) {
	b, err := uc.GetBranch(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		b.Name = strings.TrimSpace(*input.Name)
		if b.Name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
	}
	if input.Location != nil {
		b.Location = input.Location
	}
	b.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, postgres.TranslateError(err, "update branch")
	}
	return b, nil
}

// DeleteBranch fails with a validation error while variants are stocked there.
func (uc *branchUseCase) DeleteBranch(ctx context.Context, id int64) error {
	if _, err := uc.GetBranch(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return postgres.TranslateError(err, "delete branch")
	}
	return nil
}
