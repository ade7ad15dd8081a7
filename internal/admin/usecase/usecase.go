package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fekuna/omnipos-catalog-service/internal/admin"
	"github.com/fekuna/omnipos-catalog-service/internal/admin/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes and newer versions refuse it.
	maxPasswordBytes = 72
)

var errBadCredentials = apperr.Unauthorized("invalid username/email or password")

type adminUseCase struct {
	repo       admin.Repository
	tokens     admin.TokenIssuer
	bcryptCost int
	logger     logger.ZapLogger
}

func NewAdminUseCase(repo admin.Repository, tokens admin.TokenIssuer, bcryptCost int, log logger.ZapLogger) admin.UseCase {
	return &adminUseCase{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Setup creates the first SUPER_ADMIN and is rejected once any admin exists.
func (uc *adminUseCase) Setup(ctx context.Context, input *dto.CreateAdminInput) (*model.Admin, error) {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "count admins")
	}
	if count > 0 {
		return nil, apperr.Conflict("an administrator already exists, use register with a SUPER_ADMIN account")
	}

	setup := *input
	setup.Role = model.RoleSuperAdmin
	a, err := uc.create(ctx, &setup)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("first administrator created", zap.String("username", a.Username))
	return a, nil
}

func (uc *adminUseCase) Register(ctx context.Context, input *dto.CreateAdminInput) (*model.Admin, error) {
	in := *input
	if in.Role == "" {
		in.Role = model.RoleAdmin
	}
	return uc.create(ctx, &in)
}

func (uc *adminUseCase) create(ctx context.Context, input *dto.CreateAdminInput) (*model.Admin, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, apperr.Validation("invalid role %q", input.Role)
	}
	hash, err := uc.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	a := &model.Admin{
		BaseModel:      model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		Role:           input.Role,
		IsActive:       true,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, postgres.TranslateError(err, "create admin")
	}
	return a, nil
}

func (uc *adminUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.Token, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, errBadCredentials
	}

	a, err := uc.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, apperr.Internal(err, "find admin")
	}
	if a == nil || !checkPassword(a.HashedPassword, input.Password) {
		return nil, errBadCredentials
	}
	if !a.IsActive {
		return nil, apperr.Forbidden("account is disabled")
	}

	token, expiresAt, err := uc.tokens.Issue(a)
	if err != nil {
		return nil, err
	}
	return &dto.Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

func (uc *adminUseCase) GetAdmin(ctx context.Context, id int64) (*model.Admin, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find admin")
	}
	if a == nil {
		return nil, apperr.NotFound("admin %d not found", id)
	}
	return a, nil
}

func (uc *adminUseCase) ChangePassword(ctx context.Context, id int64, input *dto.ChangePasswordInput) error {
	a, err := uc.GetAdmin(ctx, id)
	if err != nil {
		return err
	}
	if !checkPassword(a.HashedPassword, input.CurrentPassword) {
		return apperr.Validation("current password is incorrect")
	}

	hash, err := uc.hashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	a.HashedPassword = hash
	a.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, a); err != nil {
		return postgres.TranslateError(err, "update admin")
	}
	return nil
}

func (uc *adminUseCase) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	admins, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list admins")
	}
	if admins == nil {
		admins = []model.Admin{}
	}
	return admins, nil
}

func (uc *adminUseCase) UpdateAdmin(ctx context.Context, input *dto.UpdateAdminInput) (*model.Admin, error) {
	a, err := uc.GetAdmin(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		a.Email = email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperr.Validation("invalid role %q", *input.Role)
		}
		a.Role = *input.Role
	}
	if input.IsActive != nil {
		a.IsActive = *input.IsActive
	}
	a.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, postgres.TranslateError(err, "update admin")
	}
	return a, nil
}

func (uc *adminUseCase) DeleteAdmin(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperr.Validation("you cannot delete your own account")
	}
	if _, err := uc.GetAdmin(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return postgres.TranslateError(err, "delete admin")
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apperr.Validation("invalid email %q", raw)
	}
	return strings.ToLower(raw), nil
}

func (uc *adminUseCase) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword(truncate(password), uc.bcryptCost)
	if err != nil {
		return "", apperr.Internal(err, "hash password")
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
