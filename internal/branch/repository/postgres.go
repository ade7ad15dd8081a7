package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-catalog-service/internal/branch"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) branch.Repository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, b *model.Branch) error {
	query := `
        INSERT INTO branches (name, location, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.GetContext(ctx, &b.ID, query, b.Name, b.Location, b.CreatedAt, b.UpdatedAt)
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Branch, error) {
	var b model.Branch
	err := r.DB.GetContext(ctx, &b, `SELECT * FROM branches WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	err := r.DB.SelectContext(ctx, &branches, `SELECT * FROM branches ORDER BY id`)
	return branches, err
}

func (r *PGRepository) Update(ctx context.Context, b *model.Branch) error {
	query := `
        UPDATE branches
        SET name = :name,
            location = :location,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, b)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	return err
}
