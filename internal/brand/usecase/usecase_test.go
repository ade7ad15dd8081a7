package usecase

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type memRepo struct {
	items map[int64]model.Brand
	next  int64
}

func (r *memRepo) Create(ctx context.Context, b *model.Brand) error {
	for _, existing := range r.items {
		if existing.Name == b.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "brands_name_key"}
		}
	}
	r.next++
	b.ID = r.next
	r.items[b.ID] = *b
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*model.Brand, error) {
	b, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memRepo) FindAll(ctx context.Context) ([]model.Brand, error) {
	var out []model.Brand
	for _, b := range r.items {
		out = append(out, b)
	}
	return out, nil
}

func (r *memRepo) Update(ctx context.Context, b *model.Brand) error {
	r.items[b.ID] = *b
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

func TestBrandLifecycle(t *testing.T) {
	uc := NewBrandUseCase(&memRepo{items: map[int64]model.Brand{}}, nil, logger.NewNop())
	ctx := context.Background()

	empty, err := uc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Brand{}, empty)

	b, err := uc.CreateBrand(ctx, &dto.BrandInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = uc.CreateBrand(ctx, &dto.BrandInput{Name: "Acme"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, "a brand with the same name already exists", apperr.PublicMessage(err))

	renamed, err := uc.RenameBrand(ctx, &dto.BrandInput{ID: b.ID, Name: " Globex "})
	require.NoError(t, err)
	assert.Equal(t, "Globex", renamed.Name)

	_, err = uc.RenameBrand(ctx, &dto.BrandInput{ID: 99, Name: "x"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = uc.RenameBrand(ctx, &dto.BrandInput{ID: b.ID, Name: ""})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	require.NoError(t, uc.DeleteBrand(ctx, b.ID))
	assert.True(t, apperr.IsKind(uc.DeleteBrand(ctx, b.ID), apperr.KindNotFound))
}
