package variant

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// ErrSKUCollision is returned by InsertIfAbsent when the generated SKU is
// already taken. Callers may retry with a fresh SKU.
var ErrSKUCollision = errors.New("sku already taken")

type Repository interface {
	// RunInTx runs fn against a repository bound to one transaction. Any
	// error returned by fn rolls back every write made through it.
	RunInTx(ctx context.Context, fn func(repo Repository) error) error

	FindProduct(ctx context.Context, productID int64) (*model.Product, error)
	BranchExists(ctx context.Context, branchID int64) (bool, error)

	// FindByIdentity returns the variant of productID whose identity matches,
	// or nil. Absent fields match only absent columns.
	FindByIdentity(ctx context.Context, productID int64, identity Identity) (*model.ProductVariant, error)
	FindByID(ctx context.Context, id int64) (*model.ProductVariant, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.ProductVariant, error)

	// InsertIfAbsent inserts v unless a variant with the same identity exists.
	// It reports false, without error, when the identity was already taken.
	InsertIfAbsent(ctx context.Context, v *model.ProductVariant) (bool, error)
	UpdateStock(ctx context.Context, v *model.ProductVariant) error
	Update(ctx context.Context, v *model.ProductVariant) error
	Delete(ctx context.Context, id int64) error

	InsertImages(ctx context.Context, variantID int64, urls []string, at time.Time) ([]model.ProductImage, error)
	ListImages(ctx context.Context, variantIDs ...int64) ([]model.ProductImage, error)
}
