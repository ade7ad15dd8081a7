package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/internal/variant/dto"
)

const (
	maxSKUAttempts  = 3
	lockRetryDelay  = 100 * time.Millisecond
	skuRetryBackoff = time.Millisecond
)

// conflictPolicy decides what happens when the identity tuple already exists.
type conflictPolicy int

const (
	failOnExisting conflictPolicy = iota
	mergeIntoExisting
)

func (p conflictPolicy) operation() string {
	if p == failOnExisting {
		return "create"
	}
	return "upsert"
}

type variantUseCase struct {
	repo      variant.Repository
	skus      *variant.SKUGenerator
	cache     variant.Cache
	publisher variant.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
	lockWait  time.Duration
}

// NewVariantUseCase wires the reconciler. cache and publisher may be nil.
func NewVariantUseCase(repo variant.Repository, skus *variant.SKUGenerator, c variant.Cache, publisher variant.EventPublisher, log logger.ZapLogger) variant.UseCase {
	return &variantUseCase{
		repo:      repo,
		skus:      skus,
		cache:     c,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
		lockWait:  cache.TTLVariantLock,
	}
}

type outcome struct {
	variant model.ProductVariant
	created bool
}

func (uc *variantUseCase) CreateVariants(ctx context.Context, can auth.Capability, input *dto.VariantBatchInput) ([]model.ProductVariant, error) {
	return uc.reconcile(ctx, can, input, failOnExisting)
}

func (uc *variantUseCase) UpsertVariants(ctx context.Context, can auth.Capability, input *dto.VariantBatchInput) ([]model.ProductVariant, error) {
	return uc.reconcile(ctx, can, input, mergeIntoExisting)
}

func (uc *variantUseCase) reconcile(ctx context.Context, can auth.Capability, input *dto.VariantBatchInput, policy conflictPolicy) ([]model.ProductVariant, error) {
	if err := auth.Require(can, model.RoleEditor); err != nil {
		return nil, err
	}
	if err := validateBatch(input); err != nil {
		return nil, err
	}

	release, err := uc.lockIdentities(ctx, input.Variants)
	if err != nil {
		return nil, err
	}
	defer release()

	var results []outcome
	err = uc.repo.RunInTx(ctx, func(repo variant.Repository) error {
		results = make([]outcome, 0, len(input.Variants))
		for i := range input.Variants {
			out, err := uc.reconcileOne(ctx, repo, &input.Variants[i], policy)
			if err != nil {
				return apperr.Annotate(postgres.TranslateError(err, "error saving product variant"), fmt.Sprintf("variants[%d]", i))
			}
			results = append(results, out)
		}
		return nil
	})
	if err != nil {
		err = postgres.TranslateError(err, "error saving product variants")
		metrics.VariantOperations.WithLabelValues(policy.operation(), apperr.KindOf(err).String()).Inc()
		if apperr.KindOf(err) == apperr.KindInternal {
			uc.logger.Error("Failed to reconcile variants", zap.String("operation", policy.operation()), zap.Error(err))
		}
		return nil, err
	}

	variants := make([]model.ProductVariant, 0, len(results))
	for _, out := range results {
		result, eventType := "updated", variant.EventVariantUpdated
		if out.created {
			result, eventType = "created", variant.EventVariantCreated
		}
		metrics.VariantOperations.WithLabelValues(policy.operation(), result).Inc()
		uc.publish(ctx, eventType, out.variant)
		variants = append(variants, out.variant)
	}
	uc.invalidateProductCache(ctx)

	return variants, nil
}

func (uc *variantUseCase) reconcileOne(ctx context.Context, repo variant.Repository, spec *dto.VariantSpec, policy conflictPolicy) (outcome, error) {
	product, err := repo.FindProduct(ctx, spec.ProductID)
	if err != nil {
		return outcome{}, err
	}
	if product == nil {
		return outcome{}, apperr.NotFound("product with id %d does not exist", spec.ProductID)
	}

	ok, err := repo.BranchExists(ctx, *spec.BranchID)
	if err != nil {
		return outcome{}, err
	}
	if !ok {
		return outcome{}, apperr.NotFound("branch with id %d does not exist", *spec.BranchID)
	}

	identity := identityOf(spec)
	existing, err := repo.FindByIdentity(ctx, product.ID, identity)
	if err != nil {
		return outcome{}, err
	}
	if existing != nil {
		if policy == failOnExisting {
			return outcome{}, errVariantExists()
		}
		return uc.mergeInto(ctx, repo, existing, spec)
	}

	return uc.createNew(ctx, repo, product, spec, policy)
}

func (uc *variantUseCase) createNew(ctx context.Context, repo variant.Repository, product *model.Product, spec *dto.VariantSpec, policy conflictPolicy) (outcome, error) {
	now := uc.now()
	v := &model.ProductVariant{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		ProductID: product.ID,
		Color:     spec.Color,
		Size:      spec.Size,
		SizeUnit:  spec.SizeUnit,
		Unit:      spec.Unit,
		BranchID:  spec.BranchID,
		Stock:     spec.Stock,
		MinStock:  spec.MinStockOrDefault(),
	}

	var inserted bool
	backoff := retry.WithMaxRetries(maxSKUAttempts-1, retry.NewConstant(skuRetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v.SKU = uc.skus.Generate(product.Name, product.CategoryID, product.BrandID)
		ok, err := repo.InsertIfAbsent(ctx, v)
		if errors.Is(err, variant.ErrSKUCollision) {
			metrics.SKUCollisions.Inc()
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		inserted = ok
		return nil
	})
	if errors.Is(err, variant.ErrSKUCollision) {
		return outcome{}, apperr.Internal(err, "could not generate a unique SKU")
	}
	if err != nil {
		return outcome{}, err
	}

	if !inserted {
		// Another writer created the same identity between lookup and insert.
		if policy == failOnExisting {
			return outcome{}, errVariantExists()
		}
		existing, err := repo.FindByIdentity(ctx, product.ID, identityOf(spec))
		if err != nil {
			return outcome{}, err
		}
		if existing == nil {
			return outcome{}, apperr.Internal(nil, "error saving product variant")
		}
		return uc.mergeInto(ctx, repo, existing, spec)
	}

	v.Images = []model.ProductImage{}
	if len(spec.Images) > 0 {
		images, err := uc.appendImages(ctx, repo, v.ID, spec.Images)
		if err != nil {
			return outcome{}, err
		}
		v.Images = images
	}
	return outcome{variant: *v, created: true}, nil
}

// mergeInto applies the non-identity fields of spec to existing. Identity
// and SKU never change here.
func (uc *variantUseCase) mergeInto(ctx context.Context, repo variant.Repository, existing *model.ProductVariant, spec *dto.VariantSpec) (outcome, error) {
	existing.BranchID = spec.BranchID
	existing.Stock = spec.Stock
	existing.MinStock = spec.MinStockOrDefault()
	existing.UpdatedAt = uc.now()

	if err := repo.UpdateStock(ctx, existing); err != nil {
		return outcome{}, err
	}

	if len(spec.Images) > 0 {
		if _, err := uc.appendImages(ctx, repo, existing.ID, spec.Images); err != nil {
			return outcome{}, err
		}
	}
	if err := attachImages(ctx, repo, existing); err != nil {
		return outcome{}, err
	}
	return outcome{variant: *existing}, nil
}

// lockIdentities takes one Redis lock per distinct (product, identity) in the
// batch, in a stable order. A busy lock is awaited for up to lockWait, after
// which the batch proceeds without it, as it does when Redis itself fails; the
// unique constraint still guards the store.
func (uc *variantUseCase) lockIdentities(ctx context.Context, specs []dto.VariantSpec) (func(), error) {
	noop := func() {}
	if uc.cache == nil {
		return noop, nil
	}

	keySet := make(map[string]struct{}, len(specs))
	for i := range specs {
		keySet[cache.VariantLockKey(specs[i].ProductID, identityOf(&specs[i]).Key())] = struct{}{}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	owner := uuid.NewString()
	var held []string
	release := func() {
		for _, k := range held {
			if err := uc.cache.ReleaseLock(context.Background(), k, owner); err != nil {
				uc.logger.Warn("Failed to release variant lock", zap.String("key", k), zap.Error(err))
			}
		}
	}

	for _, key := range keys {
		acquired := false
		backoff := retry.WithMaxDuration(uc.lockWait, retry.NewConstant(lockRetryDelay))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			ok, err := uc.cache.AcquireLock(ctx, key, owner, cache.TTLVariantLock)
			if err != nil {
				return err
			}
			if !ok {
				return retry.RetryableError(errLockBusy)
			}
			acquired = true
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				release()
				return noop, apperr.Internal(err, "error saving product variants")
			}
			uc.logger.Warn("Variant lock unavailable, continuing without it", zap.String("key", key), zap.Error(err))
			continue
		}
		if acquired {
			held = append(held, key)
		}
	}
	return release, nil
}

var errLockBusy = errors.New("lock held by another request")

func errVariantExists() error {
	return apperr.Conflict("variant already exists for this product with the same color, size, size unit and unit")
}

func identityOf(spec *dto.VariantSpec) variant.Identity {
	return variant.Identity{Color: spec.Color, Size: spec.Size, SizeUnit: spec.SizeUnit, Unit: spec.Unit}
}

func (uc *variantUseCase) publish(ctx context.Context, eventType string, v model.ProductVariant) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishEvent(ctx, strconv.FormatInt(v.ID, 10), eventType, v); err != nil {
		uc.logger.Warn("Failed to publish variant event",
			zap.String("event_type", eventType),
			zap.Int64("variant_id", v.ID),
			zap.Error(err),
		)
	}
}

func (uc *variantUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, cache.PatternProductList); err != nil {
		uc.logger.Warn("Failed to invalidate product list cache", zap.Error(err))
	}
}

// validateBatch checks the whole batch before any write happens.
func validateBatch(input *dto.VariantBatchInput) error {
	if input == nil || len(input.Variants) == 0 {
		return apperr.Validation("at least one variant is required")
	}
	for i := range input.Variants {
		spec := &input.Variants[i]
		normalizeSpec(spec)
		if err := validateSpec(spec); err != nil {
			return apperr.Annotate(err, fmt.Sprintf("variants[%d]", i))
		}
	}
	return nil
}

func validateSpec(spec *dto.VariantSpec) error {
	if spec.ProductID <= 0 {
		return apperr.Validation("product_id is required")
	}
	if spec.BranchID == nil || *spec.BranchID <= 0 {
		return apperr.Validation("branch_id is required")
	}
	if spec.Stock < 0 {
		return apperr.Validation("stock must be greater than or equal to 0")
	}
	if spec.MinStock != nil && *spec.MinStock < 0 {
		return apperr.Validation("min_stock must be greater than or equal to 0")
	}
	if err := validateAttributes(spec.SizeUnit, spec.Unit); err != nil {
		return err
	}
	return validateURLs(spec.Images, false)
}

func validateAttributes(sizeUnit *model.SizeUnit, unit *model.Unit) error {
	if sizeUnit != nil && !sizeUnit.Valid() {
		return apperr.Validation("invalid size_unit %q", *sizeUnit)
	}
	if unit != nil && !unit.Valid() {
		return apperr.Validation("invalid unit %q", *unit)
	}
	return nil
}

func validateURLs(urls []string, required bool) error {
	if required && len(urls) == 0 {
		return apperr.Validation("at least one image url is required")
	}
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			return apperr.Validation("images[%d] must not be blank", i)
		}
	}
	return nil
}

// normalizeSpec trims free-text attributes and upper-cases enums so "xl "
// and "XL" resolve to the same identity.
func normalizeSpec(spec *dto.VariantSpec) {
	spec.Color = normalizeText(spec.Color)
	spec.Size = normalizeText(spec.Size)
	spec.SizeUnit = normalizeEnum(spec.SizeUnit)
	spec.Unit = normalizeEnum(spec.Unit)
}

func normalizeText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

func normalizeEnum[T ~string](v *T) *T {
	if v == nil {
		return nil
	}
	s := T(strings.ToUpper(strings.TrimSpace(string(*v))))
	return &s
}
