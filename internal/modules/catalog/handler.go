package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/subscription"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
)

// ShopFinder resolves the shop a catalog request is addressed to.
type ShopFinder interface {
	GetBySlug(ctx context.Context, slug, device string) (*shop.Shop, error)
	GetForOwner(ctx context.Context, slug string, ownerID uuid.UUID, device string) (*shop.Shop, error)
}

// Menu is the customer listing: the filtered products plus every category of
// the shop for the category selector.
type Menu struct {
	Category   string    `json:"category"`
	Query      string    `json:"query,omitempty"`
	Categories []string  `json:"categories"`
	Products   []Product `json:"products"`
}

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service     Service
	shops       ShopFinder
	requireUser func(http.Handler) http.Handler
	now         func() time.Time
}

func NewHandler(service Service, shops ShopFinder, requireUser func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, shops: shops, requireUser: requireUser, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/shops/{slug}/products", h.listMenu)
	r.Get("/api/v1/shops/{slug}/products/{id}", h.getProduct)

	admin := r.With(h.requireUser)
	admin.Get("/api/v1/admin/shops/{slug}/products", h.listAdmin)
	admin.Post("/api/v1/admin/shops/{slug}/products", h.createProduct)
	admin.Put("/api/v1/admin/shops/{slug}/products/{id}", h.updateProduct)
	admin.Delete("/api/v1/admin/shops/{slug}/products/{id}", h.deleteProduct)
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	device := override.DeviceFromRequest(r)
	s, err := h.shops.GetBySlug(r.Context(), chi.URLParam(r, "slug"), device)
	if err != nil {
		respondError(w, err)
		return
	}
	products, err := h.service.ListForShop(r.Context(), s.ID, device)
	if err != nil {
		respondError(w, err)
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = CategoryAll
	}
	query := r.URL.Query().Get("q")
	respond(w, http.StatusOK, Menu{
		Category:   category,
		Query:      query,
		Categories: Categories(products),
		Products:   Filter(products, category, query),
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	device := override.DeviceFromRequest(r)
	s, err := h.shops.GetBySlug(r.Context(), chi.URLParam(r, "slug"), device)
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, ErrNotFound)
		return
	}
	p, err := h.service.GetProduct(r.Context(), s.ID, id, device)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listAdmin(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedShop(w, r)
	if !ok {
		return
	}
	products, err := h.service.ListForAdmin(r.Context(), s.ID, override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"products":      products,
		"product_limit": s.ProductLimit,
		"product_count": len(products),
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedShop(w, r)
	if !ok {
		return
	}
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	quota := Quota{
		Limit:   s.ProductLimit,
		Expired: subscription.StatusAt(s.SubscriptionExpiry, h.now()).Expired,
	}
	p, err := h.service.CreateProduct(r.Context(), s.ID, quota, override.DeviceFromRequest(r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedShop(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, ErrNotFound)
		return
	}
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), s.ID, id, override.DeviceFromRequest(r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedShop(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, ErrNotFound)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), s.ID, id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ownedShop(w http.ResponseWriter, r *http.Request) (*shop.Shop, bool) {
	userID, _ := identity.UserID(r.Context())
	s, err := h.shops.GetForOwner(r.Context(), chi.URLParam(r, "slug"), userID, override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return s, true
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, shop.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidPrice):
		status = http.StatusBadRequest
	case errors.Is(err, ErrProductLimitReached), errors.Is(err, ErrSubscriptionExpired):
		status = http.StatusForbidden
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
