package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-catalog-service/internal/discount"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) discount.Repository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, d *model.Discount) error {
	query := `
        INSERT INTO discounts (
            name, discount_type, value, start_date, end_date, is_active,
            product_id, category_id, created_at, updated_at
        )
        VALUES (
            :name, :discount_type, :value, :start_date, :end_date, :is_active,
            :product_id, :category_id, :created_at, :updated_at
        )
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, d)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&d.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Discount, error) {
	var d model.Discount
	err := r.DB.GetContext(ctx, &d, `SELECT * FROM discounts WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.DiscountFilters) ([]model.Discount, error) {
	var discounts []model.Discount

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != nil {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = *f.ProductID
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = *f.CategoryID
	}
	if f.ActiveAt != nil {
		conditions = append(conditions,
			"is_active",
			"(start_date IS NULL OR start_date <= :at)",
			"(end_date IS NULL OR end_date >= :at)")
		args["at"] = *f.ActiveAt
	}

	query := "SELECT * FROM discounts"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &discounts, args)
	return discounts, err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	return err
}
