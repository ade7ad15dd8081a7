package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

const (
	defaultPageSize    = 10
	defaultSearchLimit = 20
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

// Register mounts the /products routes. Reads are public.
func (h *ProductHandler) Register(r chi.Router) {
	writeErr := httpx.ErrorWriter(h.logger)

	r.Get("/", h.listProducts)
	r.Get("/all", h.listAllProducts)
	r.Get("/search", h.searchProducts)
	r.Get("/min-max-price", h.priceRange)
	r.Get("/{id}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(model.RoleEditor, writeErr))
		r.Post("/", h.createProduct)
		r.Patch("/{id}", h.updateProduct)
	})
	r.With(auth.RequireRole(model.RoleAdmin, writeErr)).Delete("/{id}", h.deleteProduct)
}

func (h *ProductHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func parseFilters(r *http.Request) (*dto.ProductFilters, error) {
	f := &dto.ProductFilters{
		Categories: httpx.QueryList(r, "categories"),
		Brands:     httpx.QueryList(r, "brands"),
	}

	var err error
	if f.MinPrice, err = httpx.QueryDecimal(r, "minPrice"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = httpx.QueryDecimal(r, "maxPrice"); err != nil {
		return nil, err
	}
	if f.Page, err = httpx.QueryInt(r, "page", 1); err != nil {
		return nil, err
	}
	if f.PageSize, err = httpx.QueryInt(r, "size", defaultPageSize); err != nil {
		return nil, err
	}
	return f, nil
}

func (h *ProductHandler) listAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.uc.ListAllProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := httpx.QueryInt(r, "limit", defaultSearchLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	products, err := h.uc.SearchProducts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) priceRange(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.PriceRange(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.UpdateProductInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.ID = id

	p, err := h.uc.UpdateProduct(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
