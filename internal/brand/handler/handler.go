package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/brand"
	"github.com/fekuna/omnipos-catalog-service/internal/brand/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type BrandHandler struct {
	uc     brand.UseCase
	logger logger.ZapLogger
}

func NewBrandHandler(uc brand.UseCase, log logger.ZapLogger) *BrandHandler {
	return &BrandHandler{uc: uc, logger: log}
}

func (h *BrandHandler) Register(r chi.Router) {
	writeErr := httpx.ErrorWriter(h.logger)

	r.Get("/", h.listBrands)
	r.Get("/{id}", h.getBrand)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(model.RoleEditor, writeErr))
		r.Post("/", h.createBrand)
		r.Patch("/{id}", h.renameBrand)
	})
	r.With(auth.RequireRole(model.RoleAdmin, writeErr)).Delete("/{id}", h.deleteBrand)
}

func (h *BrandHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *BrandHandler) createBrand(w http.ResponseWriter, r *http.Request) {
	var req dto.BrandInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	b, err := h.uc.CreateBrand(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *BrandHandler) getBrand(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	b, err := h.uc.GetBrand(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BrandHandler) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.uc.ListBrands(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.BrandList{Brands: brands, Total: len(brands)})
}

func (h *BrandHandler) renameBrand(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.BrandInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.ID = id

	b, err := h.uc.RenameBrand(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BrandHandler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.uc.DeleteBrand(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
