package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) inventory.Repository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindVariant(ctx context.Context, id int64) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.DB.GetContext(ctx, &v, `SELECT * FROM product_variants WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) AdjustStock(ctx context.Context, variantID int64, delta int, at time.Time) (*model.ProductVariant, error) {
	query := `
        UPDATE product_variants
        SET stock = stock + $1,
            updated_at = $2
        WHERE id = $3 AND stock + $1 >= 0
        RETURNING *
    `
	var v model.ProductVariant
	err := r.DB.GetContext(ctx, &v, query, delta, at, variantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return &v, nil
}

func (r *PGRepository) FindLowStock(ctx context.Context, f *dto.LowStockFilters) ([]model.ProductVariant, int, error) {
	var items []model.ProductVariant
	var count int

	conditions := []string{"stock <= min_stock"}
	args := map[string]interface{}{}

	if f.BranchID != nil {
		conditions = append(conditions, "branch_id = :branch_id")
		args["branch_id"] = *f.BranchID
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	// Count
	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM product_variants"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	// List, emptiest first
	query := "SELECT * FROM product_variants" + whereClause + " ORDER BY stock ASC, id ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
