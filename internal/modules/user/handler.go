package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
)

type Handler struct {
	service     Service
	requireUser func(http.Handler) http.Handler
}

func NewHandler(service Service, requireUser func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, requireUser: requireUser}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	me := router.With(h.requireUser)
	me.Get("/api/v1/me", h.getMe)
	me.Put("/api/v1/me/password", h.resetPassword)
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	id, _ := identity.UserID(r.Context())
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, user)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	id, _ := identity.UserID(r.Context())
	if err := h.service.ResetPassword(r.Context(), id, req); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrEmailRequired):
		status = http.StatusBadRequest
	case errors.Is(err, ErrEmailTaken):
		status = http.StatusConflict
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
