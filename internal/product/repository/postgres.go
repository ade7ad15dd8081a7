package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) product.Repository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            serial_number, name, description, warranty_time, warranty_unit,
            cost, retail_price, status, category_id, brand_id, created_at, updated_at
        )
        VALUES (
            :serial_number, :name, :description, :warranty_time, :warranty_unit,
            :cost, :retail_price, :status, :category_id, :brand_id, :created_at, :updated_at
        )
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, p)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&p.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.DB.SelectContext(ctx, &products, `SELECT * FROM products ORDER BY id`)
	return products, err
}

func (r *PGRepository) FindFiltered(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := []interface{}{}

	if len(f.Categories) > 0 {
		conditions = append(conditions, "c.name IN (?)")
		args = append(args, f.Categories)
	}
	if len(f.Brands) > 0 {
		conditions = append(conditions, "b.name IN (?)")
		args = append(args, f.Brands)
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "p.retail_price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "p.retail_price <= ?")
		args = append(args, *f.MaxPrice)
	}

	from := ` FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        LEFT JOIN brands b ON b.id = p.brand_id`
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Count
	countQuery, countArgs, err := sqlx.In("SELECT count(*)"+from+whereClause, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	// List
	offset := (f.Page - 1) * f.PageSize
	listArgs := append(args, f.PageSize, offset)
	query, listArgs, err := sqlx.In("SELECT p.*"+from+whereClause+" ORDER BY p.id LIMIT ? OFFSET ?", listArgs...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(query), listArgs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            description = :description,
            warranty_time = :warranty_time,
            warranty_unit = :warranty_unit,
            cost = :cost,
            retail_price = :retail_price,
            status = :status,
            category_id = :category_id,
            brand_id = :brand_id,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

// Delete cascades to variants and their images.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *PGRepository) IsSerialUnique(ctx context.Context, serial string, excludeID int64) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE serial_number = $1 AND id <> $2`
	if err := r.DB.GetContext(ctx, &count, query, serial, excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id)
	return exists, err
}

func (r *PGRepository) BrandExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM brands WHERE id = $1)`, id)
	return exists, err
}

func (r *PGRepository) PriceRange(ctx context.Context) (*dto.PriceRange, error) {
	var row struct {
		Min decimal.NullDecimal `db:"min_price"`
		Max decimal.NullDecimal `db:"max_price"`
	}
	query := `SELECT MIN(retail_price) AS min_price, MAX(retail_price) AS max_price FROM products`
	if err := r.DB.GetContext(ctx, &row, query); err != nil {
		return nil, err
	}

	out := &dto.PriceRange{}
	if row.Min.Valid {
		out.MinPrice = &row.Min.Decimal
	}
	if row.Max.Valid {
		out.MaxPrice = &row.Max.Decimal
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PGRepository) Search(ctx context.Context, q string, limit int) ([]model.Product, error) {
	var products []model.Product
	query := `
        SELECT * FROM products
        WHERE name ILIKE $1 OR serial_number ILIKE $1 OR description ILIKE $1
        ORDER BY id
        LIMIT $2
    `
	err := r.DB.SelectContext(ctx, &products, query, "%"+likeEscaper.Replace(q)+"%", limit)
	return products, err
}

func (r *PGRepository) LoadRelations(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	productIDs := make([]int64, 0, len(products))
	var categoryIDs, brandIDs []int64
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		if p.CategoryID != nil {
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
		if p.BrandID != nil {
			brandIDs = append(brandIDs, *p.BrandID)
		}
	}

	var categories []model.Category
	if err := r.selectIn(ctx, &categories, `SELECT * FROM categories WHERE id IN (?)`, categoryIDs); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	var brands []model.Brand
	if err := r.selectIn(ctx, &brands, `SELECT * FROM brands WHERE id IN (?)`, brandIDs); err != nil {
		return fmt.Errorf("load brands: %w", err)
	}
	var variants []model.ProductVariant
	if err := r.selectIn(ctx, &variants, `SELECT * FROM product_variants WHERE product_id IN (?) ORDER BY id`, productIDs); err != nil {
		return fmt.Errorf("load variants: %w", err)
	}

	variantIDs := make([]int64, 0, len(variants))
	for _, v := range variants {
		variantIDs = append(variantIDs, v.ID)
	}
	var images []model.ProductImage
	if err := r.selectIn(ctx, &images, `SELECT * FROM product_images WHERE variant_id IN (?) ORDER BY id`, variantIDs); err != nil {
		return fmt.Errorf("load images: %w", err)
	}

	assemble(products, categories, brands, variants, images)
	return nil
}

func (r *PGRepository) selectIn(ctx context.Context, dest interface{}, query string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return r.DB.SelectContext(ctx, dest, r.DB.Rebind(query), args...)
}

func assemble(products []model.Product, categories []model.Category, brands []model.Brand, variants []model.ProductVariant, images []model.ProductImage) {
	categoryByID := make(map[int64]*model.Category, len(categories))
	for i := range categories {
		categoryByID[categories[i].ID] = &categories[i]
	}
	brandByID := make(map[int64]*model.Brand, len(brands))
	for i := range brands {
		brandByID[brands[i].ID] = &brands[i]
	}
	imagesByVariant := make(map[int64][]model.ProductImage)
	for _, img := range images {
		imagesByVariant[img.VariantID] = append(imagesByVariant[img.VariantID], img)
	}
	variantsByProduct := make(map[int64][]model.ProductVariant)
	for _, v := range variants {
		v.Images = imagesByVariant[v.ID]
		if v.Images == nil {
			v.Images = []model.ProductImage{}
		}
		variantsByProduct[v.ProductID] = append(variantsByProduct[v.ProductID], v)
	}

	for i := range products {
		p := &products[i]
		if p.CategoryID != nil {
			p.Category = categoryByID[*p.CategoryID]
		}
		if p.BrandID != nil {
			p.Brand = brandByID[*p.BrandID]
		}
		p.Variants = variantsByProduct[p.ID]
		if p.Variants == nil {
			p.Variants = []model.ProductVariant{}
		}
	}
}
