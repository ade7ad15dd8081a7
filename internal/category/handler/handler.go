package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(r chi.Router) {
	writeErr := httpx.ErrorWriter(h.logger)

	r.Get("/", h.listCategories)
	r.Get("/{id}", h.getCategory)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(model.RoleEditor, writeErr))
		r.Post("/", h.createCategory)
		r.Patch("/{id}", h.updateCategory)
	})
	r.With(auth.RequireRole(model.RoleAdmin, writeErr)).Delete("/{id}", h.deleteCategory)
}

func (h *CategoryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	cat, err := h.uc.CreateCategory(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cat, err := h.uc.GetCategory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	filters := &dto.CategoryFilters{Name: r.URL.Query().Get("name")}

	var err error
	if filters.Page, err = httpx.QueryInt(r, "page", 1); err != nil {
		h.fail(w, r, err)
		return
	}
	if filters.PageSize, err = httpx.QueryInt(r, "size", 0); err != nil {
		h.fail(w, r, err)
		return
	}

	cats, count, err := h.uc.ListCategories(r.Context(), filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.CategoryList{Categories: cats, Total: count})
}

func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.UpdateCategoryInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.ID = id

	cat, err := h.uc.UpdateCategory(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.uc.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
