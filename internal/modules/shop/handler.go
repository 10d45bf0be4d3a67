package shop

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/subscription"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
)

// Storefront is the public view of a shop.
type Storefront struct {
	*Shop
	IsOpen bool   `json:"is_open"`
	Hours  string `json:"hours,omitempty"`
	URL    string `json:"url"`
}

// AdminView is the owner's view of a shop.
type AdminView struct {
	*Shop
	Subscription subscription.Status `json:"subscription_status"`
	URL          string              `json:"url"`
}

// Handler exposes shop HTTP endpoints.
type Handler struct {
	service     Service
	requireUser func(http.Handler) http.Handler
	baseURL     string
	loc         *time.Location
	now         func() time.Time
}

// NewHandler wires the shop endpoints. requireUser guards the admin routes
// and must put the user id in the request context.
func NewHandler(service Service, requireUser func(http.Handler) http.Handler, baseURL string, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, requireUser: requireUser, baseURL: baseURL, loc: loc, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/shops/{slug}", h.getShop)
	r.Get("/api/v1/shops/{slug}/qr.png", h.getQR)

	admin := r.With(h.requireUser)
	admin.Get("/api/v1/admin/shops/{slug}", h.getAdminShop)
	admin.Put("/api/v1/admin/shops/{slug}", h.updateShop)
}

// Open reports whether the shop is open right now in the shop's time zone.
func (h *Handler) Open(s *Shop) bool {
	return IsOpenAt(h.now().In(h.loc), s.OpenTime, s.CloseTime)
}

func (h *Handler) getShop(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"), override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, Storefront{
		Shop:   s,
		IsOpen: h.Open(s),
		Hours:  HoursLabel(s.OpenTime, s.CloseTime),
		URL:    PublicURL(h.baseURL, s.Slug),
	})
}

func (h *Handler) getQR(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"), override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	png, err := QRCode(h.baseURL, s.Slug)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.Slug+`-qr-code.png"`)
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) getAdminShop(w http.ResponseWriter, r *http.Request) {
	userID, _ := identity.UserID(r.Context())
	s, err := h.service.GetForOwner(r.Context(), chi.URLParam(r, "slug"), userID, override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, h.adminView(s))
}

func (h *Handler) updateShop(w http.ResponseWriter, r *http.Request) {
	var req UpdateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	userID, _ := identity.UserID(r.Context())
	s, err := h.service.UpdateShop(r.Context(), chi.URLParam(r, "slug"), userID, override.DeviceFromRequest(r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, h.adminView(s))
}

func (h *Handler) adminView(s *Shop) AdminView {
	return AdminView{
		Shop:         s,
		Subscription: subscription.StatusAt(s.SubscriptionExpiry, h.now()),
		URL:          PublicURL(h.baseURL, s.Slug),
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidName):
		status = http.StatusBadRequest
	case errors.Is(err, ErrSlugTaken):
		status = http.StatusConflict
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
