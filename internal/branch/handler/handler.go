package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/branch"
	"github.com/fekuna/omnipos-catalog-service/internal/branch/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type BranchHandler struct {
	uc     branch.UseCase
	logger logger.ZapLogger
}

func NewBranchHandler(uc branch.UseCase, log logger.ZapLogger) *BranchHandler {
	return &BranchHandler{uc: uc, logger: log}
}

func (h *BranchHandler) Register(r chi.Router) {
	writeErr := httpx.ErrorWriter(h.logger)

	r.Get("/", h.listBranches)
	r.Get("/{id}", h.getBranch)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(model.RoleEditor, writeErr))
		r.Post("/", h.createBranch)
		r.Patch("/{id}", h.updateBranch)
	})
	r.With(auth.RequireRole(model.RoleAdmin, writeErr)).Delete("/{id}", h.deleteBranch)
}

func (h *BranchHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *BranchHandler) createBranch(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBranchInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	b, err := h.uc.CreateBranch(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *BranchHandler) getBranch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	b, err := h.uc.GetBranch(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BranchHandler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.uc.ListBranches(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) updateBranch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.UpdateBranchInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.ID = id

	b, err := h.uc.UpdateBranch(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BranchHandler) deleteBranch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.uc.DeleteBranch(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
