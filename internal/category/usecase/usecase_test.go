package usecase

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type memRepo struct {
	items     map[int64]model.Category
	next      int64
	deleteErr error
}

func (r *memRepo) Create(ctx context.Context, c *model.Category) error {
	for _, existing := range r.items {
		if existing.Name == c.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"}
		}
	}
	r.next++
	c.ID = r.next
	r.items[c.ID] = *c
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memRepo) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	var out []model.Category
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *memRepo) Update(ctx context.Context, c *model.Category) error {
	r.items[c.ID] = *c
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.items, id)
	return nil
}

type countingCache struct{ calls int }

func (c *countingCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.calls++
	return nil
}

func TestCategoryLifecycle(t *testing.T) {
	repo := &memRepo{items: map[int64]model.Category{}}
	c := &countingCache{}
	uc := NewCategoryUseCase(repo, c, logger.NewNop())
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "  Ropa "})
	require.NoError(t, err)
	assert.Equal(t, "Ropa", cat.Name)

	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Ropa"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: " "})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	desc := "Prendas"
	updated, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: cat.ID, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Ropa", updated.Name)
	assert.Equal(t, "Prendas", *updated.Description)
	assert.Equal(t, 1, c.calls)

	list, total, err := uc.ListCategories(ctx, &dto.CategoryFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)

	_, _, err = uc.ListCategories(ctx, &dto.CategoryFilters{Page: 1, PageSize: 500})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	require.NoError(t, uc.DeleteCategory(ctx, cat.ID))
	assert.Equal(t, 2, c.calls)
	_, err = uc.GetCategory(ctx, cat.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeleteCategoryInUse(t *testing.T) {
	repo := &memRepo{
		items:     map[int64]model.Category{},
		deleteErr: &pgconn.PgError{Code: "23503"},
	}
	uc := NewCategoryUseCase(repo, nil, logger.NewNop())
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Ropa"})
	require.NoError(t, err)

	err = uc.DeleteCategory(ctx, cat.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
