package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-catalog-service/internal/brand"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) brand.Repository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, b *model.Brand) error {
	query := `
        INSERT INTO brands (name, created_at, updated_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	return r.DB.GetContext(ctx, &b.ID, query, b.Name, b.CreatedAt, b.UpdatedAt)
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Brand, error) {
	var b model.Brand
	err := r.DB.GetContext(ctx, &b, `SELECT * FROM brands WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.DB.SelectContext(ctx, &brands, `SELECT * FROM brands ORDER BY name`)
	return brands, err
}

func (r *PGRepository) Update(ctx context.Context, b *model.Brand) error {
	query := `UPDATE brands SET name = :name, updated_at = :updated_at WHERE id = :id`
	_, err := r.DB.NamedExecContext(ctx, query, b)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	return err
}
