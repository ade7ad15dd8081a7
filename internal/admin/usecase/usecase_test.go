package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fekuna/omnipos-catalog-service/internal/admin/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type memRepo struct {
	items map[int64]model.Admin
	next  int64
}

func newMemRepo() *memRepo { return &memRepo{items: map[int64]model.Admin{}} }

func (r *memRepo) Create(ctx context.Context, a *model.Admin) error {
	for _, existing := range r.items {
		if existing.Username == a.Username {
			return &pgconn.PgError{Code: "23505", ConstraintName: "admins_username_key"}
		}
		if existing.Email == a.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "admins_email_key"}
		}
	}
	r.next++
	a.ID = r.next
	r.items[a.ID] = *a
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*model.Admin, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memRepo) FindByIdentifier(ctx context.Context, identifier string) (*model.Admin, error) {
	for _, a := range r.items {
		if a.Username == identifier || a.Email == identifier {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memRepo) FindAll(ctx context.Context) ([]model.Admin, error) {
	var out []model.Admin
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}

func (r *memRepo) Count(ctx context.Context) (int, error) { return len(r.items), nil }

func (r *memRepo) Update(ctx context.Context, a *model.Admin) error {
	r.items[a.ID] = *a
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

func newUseCase(repo *memRepo) (*adminUseCase, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	return NewAdminUseCase(repo, tm, bcrypt.MinCost, logger.NewNop()).(*adminUseCase), tm
}

func ptr[T any](v T) *T { return &v }

func TestSetupOnlyOnce(t *testing.T) {
	uc, _ := newUseCase(newMemRepo())
	ctx := context.Background()

	root, err := uc.Setup(ctx, &dto.CreateAdminInput{Username: "root", Email: "root@example.com", Password: "s3cretpass", Role: model.RoleEditor})
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, root.Role)
	assert.NotEqual(t, "s3cretpass", root.HashedPassword)

	_, err = uc.Setup(ctx, &dto.CreateAdminInput{Username: "other", Email: "other@example.com", Password: "s3cretpass"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestLogin(t *testing.T) {
	repo := newMemRepo()
	uc, tm := newUseCase(repo)
	ctx := context.Background()

	a, err := uc.Register(ctx, &dto.CreateAdminInput{Username: "ana", Email: "Ana@Example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, a.Role)
	assert.Equal(t, "ana@example.com", a.Email)

	for _, identifier := range []string{"ana", "ana@example.com"} {
		token, err := uc.Login(ctx, &dto.LoginInput{Identifier: identifier, Password: "s3cretpass"})
		require.NoError(t, err, identifier)
		assert.Equal(t, "bearer", token.TokenType)

		p, err := tm.Parse(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, a.ID, p.AdminID)
		assert.Equal(t, model.RoleAdmin, p.Role)
	}

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, err1 := uc.Login(ctx, &dto.LoginInput{Identifier: "ana", Password: "nope-nope"})
		_, err2 := uc.Login(ctx, &dto.LoginInput{Identifier: "ghost", Password: "s3cretpass"})
		assert.True(t, apperr.IsKind(err1, apperr.KindUnauthorized))
		assert.Equal(t, apperr.PublicMessage(err1), apperr.PublicMessage(err2))
	})

	t.Run("inactive", func(t *testing.T) {
		_, err := uc.UpdateAdmin(ctx, &dto.UpdateAdminInput{ID: a.ID, IsActive: ptr(false)})
		require.NoError(t, err)
		_, err = uc.Login(ctx, &dto.LoginInput{Identifier: "ana", Password: "s3cretpass"})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

func TestLongPasswordsAreTruncated(t *testing.T) {
	uc, _ := newUseCase(newMemRepo())
	ctx := context.Background()
	long := strings.Repeat("x", 80)

	_, err := uc.Register(ctx, &dto.CreateAdminInput{Username: "long", Email: "long@example.com", Password: long})
	require.NoError(t, err)

	_, err = uc.Login(ctx, &dto.LoginInput{Identifier: "long", Password: long[:72] + "different"})
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newUseCase(newMemRepo())
	ctx := context.Background()

	tests := []dto.CreateAdminInput{
		{Username: "", Email: "a@example.com", Password: "s3cretpass"},
		{Username: "a", Email: "not-an-email", Password: "s3cretpass"},
		{Username: "a", Email: "a@example.com", Password: "short"},
		{Username: "a", Email: "a@example.com", Password: "s3cretpass", Role: "OWNER"},
	}
	for _, in := range tests {
		_, err := uc.Register(ctx, &in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "%+v", in)
	}

	_, err := uc.Register(ctx, &dto.CreateAdminInput{Username: "a", Email: "a@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	_, err = uc.Register(ctx, &dto.CreateAdminInput{Username: "b", Email: "a@example.com", Password: "s3cretpass"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, "email already registered", apperr.PublicMessage(err))
}

func TestChangePasswordAndDelete(t *testing.T) {
	uc, _ := newUseCase(newMemRepo())
	ctx := context.Background()

	a, err := uc.Register(ctx, &dto.CreateAdminInput{Username: "a", Email: "a@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	b, err := uc.Register(ctx, &dto.CreateAdminInput{Username: "b", Email: "b@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, a.ID, &dto.ChangePasswordInput{CurrentPassword: "wrong-pass", NewPassword: "n3wpassword"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	require.NoError(t, uc.ChangePassword(ctx, a.ID, &dto.ChangePasswordInput{CurrentPassword: "s3cretpass", NewPassword: "n3wpassword"}))
	_, err = uc.Login(ctx, &dto.LoginInput{Identifier: "a", Password: "n3wpassword"})
	require.NoError(t, err)

	assert.True(t, apperr.IsKind(uc.DeleteAdmin(ctx, a.ID, a.ID), apperr.KindValidation))
	require.NoError(t, uc.DeleteAdmin(ctx, a.ID, b.ID))
	assert.True(t, apperr.IsKind(uc.DeleteAdmin(ctx, a.ID, b.ID), apperr.KindNotFound))
}
