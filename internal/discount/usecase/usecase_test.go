package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type memRepo struct {
	items     map[int64]model.Discount
	next      int64
	createErr error
}

func (r *memRepo) Create(ctx context.Context, d *model.Discount) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.next++
	d.ID = r.next
	r.items[d.ID] = *d
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*model.Discount, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *memRepo) FindAll(ctx context.Context, f *dto.DiscountFilters) ([]model.Discount, error) {
	var out []model.Discount
	for _, d := range r.items {
		out = append(out, d)
	}
	return out, nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

func TestCreateDiscountValidation(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	before := start.Add(-24 * time.Hour)

	tests := []struct {
		name  string
		input dto.CreateDiscountInput
		ok    bool
	}{
		{"percentage", dto.CreateDiscountInput{Name: "Verano", DiscountType: model.DiscountPercentage, Value: decimal.NewFromInt(15)}, true},
		{"full percentage", dto.CreateDiscountInput{Name: "Gratis", DiscountType: model.DiscountPercentage, Value: decimal.NewFromInt(100)}, true},
		{"fixed above 100", dto.CreateDiscountInput{Name: "Fijo", DiscountType: model.DiscountFixed, Value: decimal.NewFromInt(250)}, true},
		{"percentage above 100", dto.CreateDiscountInput{Name: "x", DiscountType: model.DiscountPercentage, Value: decimal.NewFromInt(101)}, false},
		{"negative", dto.CreateDiscountInput{Name: "x", DiscountType: model.DiscountFixed, Value: decimal.NewFromInt(-1)}, false},
		{"unknown type", dto.CreateDiscountInput{Name: "x", DiscountType: "bogo", Value: decimal.NewFromInt(1)}, false},
		{"missing name", dto.CreateDiscountInput{DiscountType: model.DiscountFixed, Value: decimal.NewFromInt(1)}, false},
		{"inverted dates", dto.CreateDiscountInput{Name: "x", DiscountType: model.DiscountFixed, Value: decimal.NewFromInt(1), StartDate: &start, EndDate: &before}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewDiscountUseCase(&memRepo{items: map[int64]model.Discount{}}, logger.NewNop())
			d, err := uc.CreateDiscount(context.Background(), &tt.input)
			if tt.ok {
				require.NoError(t, err)
				assert.True(t, d.IsActive)
				return
			}
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestCreateDiscountUnknownProduct(t *testing.T) {
	repo := &memRepo{items: map[int64]model.Discount{}, createErr: &pgconn.PgError{Code: "23503"}}
	uc := NewDiscountUseCase(repo, logger.NewNop())

	_, err := uc.CreateDiscount(context.Background(), &dto.CreateDiscountInput{
		Name: "x", DiscountType: model.DiscountFixed, Value: decimal.NewFromInt(1), ProductID: new(int64),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDeleteDiscount(t *testing.T) {
	uc := NewDiscountUseCase(&memRepo{items: map[int64]model.Discount{}}, logger.NewNop())
	ctx := context.Background()

	d, err := uc.CreateDiscount(ctx, &dto.CreateDiscountInput{Name: "x", DiscountType: model.DiscountFixed, Value: decimal.NewFromInt(5)})
	require.NoError(t, err)

	list, err := uc.ListDiscounts(ctx, &dto.DiscountFilters{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.DeleteDiscount(ctx, d.ID))
	assert.True(t, apperr.IsKind(uc.DeleteDiscount(ctx, d.ID), apperr.KindNotFound))
}
