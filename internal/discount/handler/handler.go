package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/discount"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type DiscountHandler struct {
	uc     discount.UseCase
	logger logger.ZapLogger
}

func NewDiscountHandler(uc discount.UseCase, log logger.ZapLogger) *DiscountHandler {
	return &DiscountHandler{uc: uc, logger: log}
}

func (h *DiscountHandler) Register(r chi.Router) {
	writeErr := httpx.ErrorWriter(h.logger)

	r.Get("/", h.listDiscounts)
	r.Get("/{id}", h.getDiscount)
	r.With(auth.RequireRole(model.RoleEditor, writeErr)).Post("/", h.createDiscount)
	r.With(auth.RequireRole(model.RoleAdmin, writeErr)).Delete("/{id}", h.deleteDiscount)
}

func (h *DiscountHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *DiscountHandler) createDiscount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDiscountInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.uc.CreateDiscount(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, d)
}

func (h *DiscountHandler) getDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.uc.GetDiscount(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

// listDiscounts accepts product_id, category_id and active=true, which keeps
// only discounts in effect right now.
func (h *DiscountHandler) listDiscounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.DiscountFilters{}

	for name, dst := range map[string]**int64{"product_id": &filters.ProductID, "category_id": &filters.CategoryID} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.fail(w, r, apperr.Validation("invalid %s: %q", name, raw))
			return
		}
		*dst = &id
	}
	if active, _ := strconv.ParseBool(q.Get("active")); active {
		now := time.Now()
		filters.ActiveAt = &now
	}

	discounts, err := h.uc.ListDiscounts(r.Context(), filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, discounts)
}

func (h *DiscountHandler) deleteDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.uc.DeleteDiscount(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
