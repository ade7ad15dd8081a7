package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-catalog-service/internal/admin"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) admin.Repository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, a *model.Admin) error {
	query := `
        INSERT INTO admins (username, email, hashed_password, role, is_active, created_at, updated_at)
        VALUES (:username, :email, :hashed_password, :role, :is_active, :created_at, :updated_at)
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, a)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&a.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Admin, error) {
	return r.findOne(ctx, `SELECT * FROM admins WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.Admin, error) {
	return r.findOne(ctx, `SELECT * FROM admins WHERE username = $1 OR email = $1 ORDER BY id LIMIT 1`, identifier)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Admin, error) {
	var a model.Admin
	if err := r.DB.GetContext(ctx, &a, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	err := r.DB.SelectContext(ctx, &admins, `SELECT * FROM admins ORDER BY id`)
	return admins, err
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM admins`)
	return count, err
}

func (r *PGRepository) Update(ctx context.Context, a *model.Admin) error {
	query := `
        UPDATE admins
        SET email = :email,
            hashed_password = :hashed_password,
            role = :role,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	return err
}
