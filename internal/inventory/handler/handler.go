package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

const defaultPageSize = 20

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

// Register mounts the stock routes on the /variants router.
func (h *InventoryHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(model.RoleEditor, httpx.ErrorWriter(h.logger)))
		r.Get("/low-stock", h.listLowStock)
		r.Post("/{id}/stock/add", h.addStock)
		r.Post("/{id}/stock/reduce", h.reduceStock)
	})
}

func (h *InventoryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *InventoryHandler) addStock(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.uc.AddStock)
}

func (h *InventoryHandler) reduceStock(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.uc.ReduceStock)
}

type adjustFunc func(ctx context.Context, input *dto.AdjustStockInput) (*model.ProductVariant, error)

func (h *InventoryHandler) adjust(w http.ResponseWriter, r *http.Request, fn adjustFunc) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.AdjustStockInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.VariantID = id

	v, err := fn(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *InventoryHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	filters := &dto.LowStockFilters{}

	if raw := r.URL.Query().Get("branch_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.fail(w, r, apperr.Validation("invalid branch_id: %q", raw))
			return
		}
		filters.BranchID = &id
	}

	var err error
	if filters.Page, err = httpx.QueryInt(r, "page", 1); err != nil {
		h.fail(w, r, err)
		return
	}
	if filters.PageSize, err = httpx.QueryInt(r, "size", defaultPageSize); err != nil {
		h.fail(w, r, err)
		return
	}

	items, count, err := h.uc.ListLowStock(r.Context(), filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.LowStockPage{
		Variants: items,
		Total:    count,
		Page:     filters.Page,
		Size:     filters.PageSize,
	})
}
