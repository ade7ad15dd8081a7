package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-catalog-service/internal/admin"
	"github.com/fekuna/omnipos-catalog-service/internal/admin/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/httpx"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type AdminHandler struct {
	uc     admin.UseCase
	logger logger.ZapLogger
}

func NewAdminHandler(uc admin.UseCase, log logger.ZapLogger) *AdminHandler {
	return &AdminHandler{uc: uc, logger: log}
}

func (h *AdminHandler) Register(r chi.Router) {
	writeErr := httpx.ErrorWriter(h.logger)

	r.Post("/setup", h.setup)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthenticated(writeErr))
		r.Get("/me", h.me)
		r.Put("/me/password", h.changePassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(model.RoleSuperAdmin, writeErr))
		r.Post("/register", h.register)
		r.Get("/", h.listAdmins)
		r.Patch("/{id}", h.updateAdmin)
		r.Delete("/{id}", h.deleteAdmin)
	})
}

func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *AdminHandler) setup(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdminInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	a, err := h.uc.Setup(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.uc.Login(r.Context(), &req)
	if err != nil {
		if apperr.IsKind(err, apperr.KindUnauthorized) {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, token)
}

func (h *AdminHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAdminInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	a, err := h.uc.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}

func (h *AdminHandler) me(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	a, err := h.uc.GetAdmin(r.Context(), p.AdminID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func (h *AdminHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	p, _ := auth.PrincipalFromContext(r.Context())
	if err := h.uc.ChangePassword(r.Context(), p.AdminID, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.uc.ListAdmins(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) updateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req dto.UpdateAdminInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.ID = id

	a, err := h.uc.UpdateAdmin(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func (h *AdminHandler) deleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p, _ := auth.PrincipalFromContext(r.Context())
	if err := h.uc.DeleteAdmin(r.Context(), p.AdminID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
