package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/internal/variant/dto"
)

var (
	editor = auth.CapabilityOf(&auth.Principal{AdminID: 1, Username: "editor", Role: model.RoleEditor})
	admin  = auth.CapabilityOf(&auth.Principal{AdminID: 2, Username: "admin", Role: model.RoleAdmin})

	skuPattern = regexp.MustCompile(`^CAMI-03-07-[0-9A-F]{8}$`)
	fixedNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	repo      *memRepo
	cache     *memCache
	publisher *memPublisher
	uc        *variantUseCase
}

func newFixture() *fixture {
	repo := newMemRepo()
	repo.addProduct(model.Product{BaseModel: model.BaseModel{ID: 1}, Name: "Camisa", CategoryID: ptr(int64(3)), BrandID: ptr(int64(7))})
	repo.addBranch(1)
	repo.addBranch(2)

	c := newMemCache()
	pub := &memPublisher{}
	uc := NewVariantUseCase(repo, variant.NewSKUGeneratorWithSource(rand.NewPCG(1, 1)), c, pub, logger.NewNop()).(*variantUseCase)
	uc.now = func() time.Time { return fixedNow }
	uc.lockWait = 150 * time.Millisecond
	return &fixture{repo: repo, cache: c, publisher: pub, uc: uc}
}

func batch(specs ...dto.VariantSpec) *dto.VariantBatchInput {
	return &dto.VariantBatchInput{Variants: specs}
}

func redShirt(stock int, images ...string) dto.VariantSpec {
	return dto.VariantSpec{ProductID: 1, Color: ptr("ROJO"), Size: ptr("M"), BranchID: ptr(int64(1)), Stock: stock, Images: images}
}

func imageURLs(v model.ProductVariant) []string {
	urls := make([]string, 0, len(v.Images))
	for _, img := range v.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}

func TestCreateConflictThenUpsert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.CreateVariants(ctx, editor, batch(redShirt(10, "1.jpg")))
	require.NoError(t, err)
	require.Len(t, created, 1)
	first := created[0]
	assert.Regexp(t, skuPattern, first.SKU)
	assert.Equal(t, 10, first.Stock)
	assert.Equal(t, model.DefaultMinStock, first.MinStock)
	assert.Equal(t, []string{"1.jpg"}, imageURLs(first))

	_, err = f.uc.CreateVariants(ctx, editor, batch(redShirt(99)))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, 1, f.repo.variantCount())

	upserted, err := f.uc.UpsertVariants(ctx, editor, batch(redShirt(20, "2.jpg")))
	require.NoError(t, err)
	require.Len(t, upserted, 1)
	got := upserted[0]
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.SKU, got.SKU)
	assert.Equal(t, 20, got.Stock)
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, imageURLs(got))
	assert.Equal(t, 1, f.repo.variantCount())

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, variant.EventVariantCreated, f.publisher.events[0].eventType)
	assert.Equal(t, variant.EventVariantUpdated, f.publisher.events[1].eventType)
	assert.Equal(t, 2, f.cache.invalidated)
	assert.Empty(t, f.cache.locks, "locks must be released")
}

func TestNullAwareIdentity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	onlyColor := dto.VariantSpec{ProductID: 1, Color: ptr("ROJO"), BranchID: ptr(int64(1)), Stock: 1}
	colorAndSize := dto.VariantSpec{ProductID: 1, Color: ptr("ROJO"), Size: ptr("M"), BranchID: ptr(int64(1)), Stock: 2}

	created, err := f.uc.CreateVariants(ctx, editor, batch(onlyColor, colorAndSize))
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].SKU, created[1].SKU)

	onlyColor.Stock = 50
	upserted, err := f.uc.UpsertVariants(ctx, editor, batch(onlyColor))
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, upserted[0].ID)

	other, err := f.uc.GetVariant(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, other.Stock, "variant with size must not be touched")
}

func TestUpsertCreatesWhenAbsent(t *testing.T) {
	f := newFixture()

	out, err := f.uc.UpsertVariants(context.Background(), editor, batch(
		dto.VariantSpec{ProductID: 1, Unit: ptr(model.Unit("xl ")), BranchID: ptr(int64(2)), Stock: 4, MinStock: ptr(1)},
	))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, model.UnitXL, *out[0].Unit)
	assert.Equal(t, 1, out[0].MinStock)
	assert.Equal(t, []model.ProductImage{}, out[0].Images)
}

func TestBatchIsAtomic(t *testing.T) {
	f := newFixture()

	_, err := f.uc.UpsertVariants(context.Background(), editor, batch(
		redShirt(10, "1.jpg"),
		dto.VariantSpec{ProductID: 99, BranchID: ptr(int64(1))},
	))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, "variants[1]: product with id 99 does not exist", apperr.PublicMessage(err))
	assert.Zero(t, f.repo.variantCount())
	assert.Empty(t, f.repo.state.images)
	assert.Empty(t, f.publisher.events)
}

func TestDuplicateIdentityInsideOneBatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.CreateVariants(ctx, editor, batch(redShirt(1), redShirt(2)))
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Zero(t, f.repo.variantCount())

	out, err := f.uc.UpsertVariants(ctx, editor, batch(redShirt(1), redShirt(2)))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, out[0].ID, out[1].ID)
	assert.Equal(t, 2, out[1].Stock)
}

func TestReconcileNotFound(t *testing.T) {
	tests := []struct {
		name    string
		spec    dto.VariantSpec
		wantMsg string
	}{
		{"missing product", dto.VariantSpec{ProductID: 5, BranchID: ptr(int64(1))}, "variants[0]: product with id 5 does not exist"},
		{"missing branch", dto.VariantSpec{ProductID: 1, BranchID: ptr(int64(9))}, "variants[0]: branch with id 9 does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.CreateVariants(context.Background(), editor, batch(tt.spec))
			assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
			assert.Equal(t, tt.wantMsg, apperr.PublicMessage(err))
		})
	}
}

func TestReconcileValidation(t *testing.T) {
	tests := []struct {
		name  string
		input *dto.VariantBatchInput
	}{
		{"nil batch", nil},
		{"empty batch", batch()},
		{"no product", batch(dto.VariantSpec{BranchID: ptr(int64(1))})},
		{"no branch", batch(dto.VariantSpec{ProductID: 1})},
		{"negative stock", batch(dto.VariantSpec{ProductID: 1, BranchID: ptr(int64(1)), Stock: -1})},
		{"negative min stock", batch(dto.VariantSpec{ProductID: 1, BranchID: ptr(int64(1)), MinStock: ptr(-2)})},
		{"bad size unit", batch(dto.VariantSpec{ProductID: 1, BranchID: ptr(int64(1)), SizeUnit: ptr(model.SizeUnit("HEIGHT"))})},
		{"bad unit", batch(dto.VariantSpec{ProductID: 1, BranchID: ptr(int64(1)), Unit: ptr(model.Unit("TON"))})},
		{"blank image", batch(dto.VariantSpec{ProductID: 1, BranchID: ptr(int64(1)), Images: []string{"a.jpg", " "}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.CreateVariants(context.Background(), editor, tt.input)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
			assert.Zero(t, f.repo.variantCount())
		})
	}
}

func TestSKUCollisionRetry(t *testing.T) {
	t.Run("recovers within attempts", func(t *testing.T) {
		f := newFixture()
		f.repo.knobs.skuCollisions = 2

		out, err := f.uc.CreateVariants(context.Background(), editor, batch(redShirt(1)))
		require.NoError(t, err)
		assert.Regexp(t, skuPattern, out[0].SKU)
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		f := newFixture()
		f.repo.knobs.skuCollisions = 3

		_, err := f.uc.CreateVariants(context.Background(), editor, batch(redShirt(1)))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindInternal))
		assert.Equal(t, "variants[0]: could not generate a unique SKU", apperr.PublicMessage(err))
		assert.Zero(t, f.repo.variantCount())
	})
}

func TestRawStorageErrorIsMasked(t *testing.T) {
	f := newFixture()
	f.repo.knobs.insertErr = errors.New(`ERROR: permission denied for table product_variants (SQLSTATE 42501)`)

	_, err := f.uc.CreateVariants(context.Background(), editor, batch(redShirt(1)))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
	assert.NotContains(t, apperr.PublicMessage(err), "permission denied")
	assert.NotContains(t, apperr.PublicMessage(err), "product_variants")
}

func TestConcurrentInsertOfSameIdentity(t *testing.T) {
	racer := model.ProductVariant{ProductID: 1, SKU: "CAMI-03-07-00000000", Color: ptr("ROJO"), Size: ptr("M"), BranchID: ptr(int64(2)), Stock: 3, MinStock: 5}

	t.Run("create reports conflict", func(t *testing.T) {
		f := newFixture()
		f.repo.knobs.raceOnInsert = &racer

		_, err := f.uc.CreateVariants(context.Background(), editor, batch(redShirt(10)))
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("upsert merges into the winner", func(t *testing.T) {
		f := newFixture()
		f.repo.knobs.raceOnInsert = &racer

		out, err := f.uc.UpsertVariants(context.Background(), editor, batch(redShirt(10, "x.jpg")))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, racer.SKU, out[0].SKU)
		assert.Equal(t, 10, out[0].Stock)
		assert.Equal(t, int64(1), *out[0].BranchID)
		assert.Equal(t, []string{"x.jpg"}, imageURLs(out[0]))
		assert.Equal(t, 1, f.repo.variantCount())
	})
}

func TestCapabilityIsEnforced(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.CreateVariants(ctx, auth.Deny, batch(redShirt(1)))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	_, err = f.uc.UpsertVariants(ctx, nil, batch(redShirt(1)))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	assert.Zero(t, f.repo.variantCount())

	created, err := f.uc.CreateVariants(ctx, editor, batch(redShirt(1)))
	require.NoError(t, err)

	err = f.uc.DeleteVariant(ctx, editor, created[0].ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	require.NoError(t, f.uc.DeleteVariant(ctx, admin, created[0].ID))

	_, err = f.uc.GetVariant(ctx, created[0].ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestLockContention(t *testing.T) {
	ctx := context.Background()

	t.Run("waits for a released lock", func(t *testing.T) {
		f := newFixture()
		f.cache.busyFor = 1

		out, err := f.uc.UpsertVariants(ctx, editor, batch(redShirt(4)))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 2, f.cache.attempts)
		assert.Equal(t, 1, f.repo.variantCount())
	})

	t.Run("upsert proceeds once the wait runs out", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.CreateVariants(ctx, editor, batch(redShirt(1)))
		require.NoError(t, err)

		f.cache.busy = true
		out, err := f.uc.UpsertVariants(ctx, editor, batch(redShirt(9)))
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, 9, out[0].Stock)
		assert.Equal(t, 1, f.repo.variantCount())
	})

	t.Run("create still reports a duplicate identity", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.CreateVariants(ctx, editor, batch(redShirt(1)))
		require.NoError(t, err)

		f.cache.busy = true
		_, err = f.uc.CreateVariants(ctx, editor, batch(redShirt(2)))
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Equal(t, 1, f.repo.variantCount())
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		f := newFixture()
		f.cache.busy = true
		f.uc.lockWait = time.Minute
		cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := f.uc.UpsertVariants(cctx, editor, batch(redShirt(1)))
		require.Error(t, err)
		assert.False(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Zero(t, f.repo.variantCount())
	})
}

func TestWithoutCacheAndPublisher(t *testing.T) {
	repo := newMemRepo()
	repo.addProduct(model.Product{BaseModel: model.BaseModel{ID: 1}, Name: "Camisa"})
	repo.addBranch(1)
	uc := NewVariantUseCase(repo, variant.NewSKUGenerator(), nil, nil, logger.NewNop())

	out, err := uc.CreateVariants(context.Background(), editor, batch(redShirt(1)))
	require.NoError(t, err)
	assert.Regexp(t, `^CAMI-00-00-[0-9A-F]{8}$`, out[0].SKU)
}
