package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/internal/variant/dto"
)

const (
	maxUploadBytes = 10 << 20
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type VariantHandler struct {
	uc     variant.UseCase
	logger logger.ZapLogger
}

func NewVariantHandler(uc variant.UseCase, log logger.ZapLogger) *VariantHandler {
	return &VariantHandler{uc: uc, logger: log}
}

// Register mounts the /variants routes. Role checks happen in the use case;
// the middleware only turns anonymous writes into 401.
func (h *VariantHandler) Register(r chi.Router) {
	r.Get("/{id}", h.getVariant)
	r.Get("/{id}/images", h.listImages)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthenticated(httpx.ErrorWriter(h.logger)))
		r.Post("/", h.createVariants)
		r.Put("/", h.upsertVariants)
		r.Post("/import", h.importVariants)
		r.Patch("/{id}", h.updateVariant)
		r.Delete("/{id}", h.deleteVariant)
		r.Post("/{id}/images", h.appendImages)
	})
}

// RegisterProductRoutes mounts the variant views nested under /products.
func (h *VariantHandler) RegisterProductRoutes(r chi.Router) {
	r.Get("/{id}/variants", h.listByProduct)
	r.Get("/{id}/variants/export", h.exportByProduct)
}

func (h *VariantHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *VariantHandler) createVariants(w http.ResponseWriter, r *http.Request) {
	var req dto.VariantBatchInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	variants, err := h.uc.CreateVariants(r.Context(), auth.CapabilityFromContext(r.Context()), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, variants)
}

func (h *VariantHandler) upsertVariants(w http.ResponseWriter, r *http.Request) {
	var req dto.VariantBatchInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	variants, err := h.uc.UpsertVariants(r.Context(), auth.CapabilityFromContext(r.Context()), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, variants)
}

func (h *VariantHandler) importVariants(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, apperr.Validation("a spreadsheet must be uploaded in the file field"))
		return
	}
	defer file.Close()

	specs, err := parseVariantsSheet(file)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	variants, err := h.uc.UpsertVariants(r.Context(), auth.CapabilityFromContext(r.Context()), &dto.VariantBatchInput{Variants: specs})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"imported": len(variants),
		"variants": variants,
	})
}

func (h *VariantHandler) getVariant(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v, err := h.uc.GetVariant(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *VariantHandler) updateVariant(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.UpdateVariantInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.ID = id

	v, err := h.uc.UpdateVariant(r.Context(), auth.CapabilityFromContext(r.Context()), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *VariantHandler) deleteVariant(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.uc.DeleteVariant(r.Context(), auth.CapabilityFromContext(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VariantHandler) listImages(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	images, err := h.uc.ListImages(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, images)
}

func (h *VariantHandler) appendImages(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.AppendImagesInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	images, err := h.uc.AppendImages(r.Context(), auth.CapabilityFromContext(r.Context()), id, req.Images)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, images)
}

func (h *VariantHandler) listByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	variants, err := h.uc.ListVariantsByProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, variants)
}

func (h *VariantHandler) exportByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	variants, err := h.uc.ListVariantsByProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	buf, err := writeVariantsSheet(variants)
	if err != nil {
		h.fail(w, r, apperr.Internal(err, "error building spreadsheet"))
		return
	}

	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="product_%d_variants.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
