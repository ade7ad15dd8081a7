package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/branch/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type stubUseCase struct {
	created *dto.CreateBranchInput
}

func (s *stubUseCase) CreateBranch(ctx context.Context, input *dto.CreateBranchInput) (*model.Branch, error) {
	s.created = input
	return &model.Branch{BaseModel: model.BaseModel{ID: 1}, Name: input.Name}, nil
}

func (s *stubUseCase) GetBranch(ctx context.Context, id int64) (*model.Branch, error) {
	return nil, apperr.NotFound("branch %d not found", id)
}

func (s *stubUseCase) ListBranches(ctx context.Context) ([]model.Branch, error) {
	return []model.Branch{{Name: "Centro"}}, nil
}

func (s *stubUseCase) UpdateBranch(ctx context.Context, input *dto.UpdateBranchInput) (*model.Branch, error) {
	return &model.Branch{BaseModel: model.BaseModel{ID: input.ID}}, nil
}

func (s *stubUseCase) DeleteBranch(ctx context.Context, id int64) error { return nil }

func TestBranchRoutes(t *testing.T) {
	log := logger.NewNop()
	tm := auth.NewTokenManager("test-secret", time.Hour)
	uc := &stubUseCase{}

	r := chi.NewRouter()
	r.Use(auth.Authenticate(tm, nil, httpx.ErrorWriter(log)))
	r.Route("/branches", NewBranchHandler(uc, log).Register)

	serve := func(req *http.Request, role model.AdminRole) *httptest.ResponseRecorder {
		if role != "" {
			token, _, err := tm.Issue(&model.Admin{BaseModel: model.BaseModel{ID: 1}, Username: "u", Role: role})
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(httptest.NewRequest(http.MethodGet, "/branches", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Centro")

	rec = serve(httptest.NewRequest(http.MethodGet, "/branches/4", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := `{"name":"Norte","location":"Av. 1"}`
	rec = serve(httptest.NewRequest(http.MethodPost, "/branches", strings.NewReader(body)), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uc.created)

	rec = serve(httptest.NewRequest(http.MethodPost, "/branches", strings.NewReader(body)), model.RoleEditor)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Av. 1", *uc.created.Location)

	rec = serve(httptest.NewRequest(http.MethodDelete, "/branches/1", nil), model.RoleEditor)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = serve(httptest.NewRequest(http.MethodDelete, "/branches/1", nil), model.RoleSuperAdmin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodPost, "/branches", strings.NewReader(`{"name":"x","extra":1}`)), model.RoleEditor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
