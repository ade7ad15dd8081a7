package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
)

type PGRepository struct {
	DB  *sqlx.DB
	ext sqlx.ExtContext
	tx  *sqlx.Tx
}

func NewPGRepository(db *sqlx.DB) variant.Repository {
	return &PGRepository{DB: db, ext: db}
}

func (r *PGRepository) RunInTx(ctx context.Context, fn func(repo variant.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return fn(&PGRepository{DB: r.DB, ext: tx, tx: tx})
	})
}

func (r *PGRepository) FindProduct(ctx context.Context, productID int64) (*model.Product, error) {
	query := `SELECT id, name, category_id, brand_id FROM products WHERE id = $1`
	var p model.Product
	if err := sqlx.GetContext(ctx, r.ext, &p, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) BranchExists(ctx context.Context, branchID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.ext, &exists, `SELECT EXISTS (SELECT 1 FROM branches WHERE id = $1)`, branchID)
	return exists, err
}

func (r *PGRepository) FindByIdentity(ctx context.Context, productID int64, identity variant.Identity) (*model.ProductVariant, error) {
	query, params, err := r.ext.BindNamed(identityQuery(productID, identity))
	if err != nil {
		return nil, err
	}

	var v model.ProductVariant
	if err := sqlx.GetContext(ctx, r.ext, &v, query, params...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// identityQuery builds the named lookup for one identity tuple of a product.
func identityQuery(productID int64, identity variant.Identity) (string, map[string]interface{}) {
	conditions := []string{"product_id = :product_id"}
	args := map[string]interface{}{"product_id": productID}

	identityCondition(&conditions, args, "color", identity.Color)
	identityCondition(&conditions, args, "size", identity.Size)
	identityCondition(&conditions, args, "size_unit", identity.SizeUnit)
	identityCondition(&conditions, args, "unit", identity.Unit)

	// Lowest id wins if stale data ever holds more than one match.
	query := fmt.Sprintf(`SELECT * FROM product_variants WHERE %s ORDER BY id LIMIT 1`, strings.Join(conditions, " AND "))
	return query, args
}

// identityCondition compares with IS NULL when value is absent, since
// "col = NULL" never matches.
func identityCondition[T ~string](conditions *[]string, args map[string]interface{}, column string, value *T) {
	if value == nil {
		*conditions = append(*conditions, column+" IS NULL")
		return
	}
	*conditions = append(*conditions, fmt.Sprintf("%s = :%s", column, column))
	args[column] = string(*value)
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.ProductVariant, error) {
	var v model.ProductVariant
	if err := sqlx.GetContext(ctx, r.ext, &v, `SELECT * FROM product_variants WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) ListByProduct(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := sqlx.SelectContext(ctx, r.ext, &variants, `SELECT * FROM product_variants WHERE product_id = $1 ORDER BY id`, productID)
	return variants, err
}

const insertIfAbsentQuery = `
	INSERT INTO product_variants (
		product_id, sku, color, size, size_unit, unit,
		branch_id, stock, min_stock, created_at, updated_at
	) VALUES (
		:product_id, :sku, :color, :size, :size_unit, :unit,
		:branch_id, :stock, :min_stock, :created_at, :updated_at
	)
	ON CONFLICT ON CONSTRAINT product_variants_identity_key DO NOTHING
	RETURNING id
`

func (r *PGRepository) InsertIfAbsent(ctx context.Context, v *model.ProductVariant) (bool, error) {
	query, args, err := r.ext.BindNamed(insertIfAbsentQuery, v)
	if err != nil {
		return false, err
	}

	var id int64
	err = r.savepoint(ctx, "variant_insert", func() error {
		return sqlx.GetContext(ctx, r.ext, &id, query, args...)
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case postgres.IsUniqueViolation(err, postgres.ConstraintVariantSKU):
		return false, variant.ErrSKUCollision
	case err != nil:
		return false, fmt.Errorf("insert variant: %w", err)
	}

	v.ID = id
	return true, nil
}

// savepoint isolates fn inside a transaction so a failed statement does not
// abort the whole transaction and a retry stays possible.
func (r *PGRepository) savepoint(ctx context.Context, name string, fn func() error) error {
	if r.tx == nil {
		return fn()
	}
	if _, err := r.ext.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if _, rbErr := r.ext.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	_, err := r.ext.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (r *PGRepository) UpdateStock(ctx context.Context, v *model.ProductVariant) error {
	query := `
		UPDATE product_variants SET
			branch_id = :branch_id,
			stock = :stock,
			min_stock = :min_stock,
			updated_at = :updated_at
		WHERE id = :id
	`
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, v)
	return err
}

func (r *PGRepository) Update(ctx context.Context, v *model.ProductVariant) error {
	query := `
		UPDATE product_variants SET
			color = :color,
			size = :size,
			size_unit = :size_unit,
			unit = :unit,
			branch_id = :branch_id,
			stock = :stock,
			min_stock = :min_stock,
			updated_at = :updated_at
		WHERE id = :id
	`
	_, err := sqlx.NamedExecContext(ctx, r.ext, query, v)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.ext.ExecContext(ctx, `DELETE FROM product_variants WHERE id = $1`, id)
	return err
}

func (r *PGRepository) InsertImages(ctx context.Context, variantID int64, urls []string, at time.Time) ([]model.ProductImage, error) {
	query := `INSERT INTO product_images (variant_id, image_url, created_at) VALUES ($1, $2, $3) RETURNING *`

	images := make([]model.ProductImage, 0, len(urls))
	for _, url := range urls {
		var img model.ProductImage
		if err := sqlx.GetContext(ctx, r.ext, &img, query, variantID, url, at); err != nil {
			return nil, fmt.Errorf("insert image: %w", err)
		}
		images = append(images, img)
	}
	return images, nil
}

func (r *PGRepository) ListImages(ctx context.Context, variantIDs ...int64) ([]model.ProductImage, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM product_images WHERE variant_id IN (?) ORDER BY id`, variantIDs)
	if err != nil {
		return nil, err
	}

	var images []model.ProductImage
	err = sqlx.SelectContext(ctx, r.ext, &images, r.ext.Rebind(query), args...)
	return images, err
}
