package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/catalog"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
)

// SessionHeader identifies the visitor's cart. Requests without it fall back
// to the SessionCookie; a visitor with neither is given a fresh session.
const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "cart_session"
)

const sessionCookieAge = 30 * 24 * time.Hour

var (
	ErrShopClosed = errors.New("shop is currently closed")
	ErrOutOfStock = errors.New("product is out of stock")
)

// ShopFinder resolves the effective shop for a device.
type ShopFinder interface {
	GetBySlug(ctx context.Context, slug, device string) (*shop.Shop, error)
}

// ProductFinder resolves the effective product for a device.
type ProductFinder interface {
	GetProduct(ctx context.Context, shopID, id uuid.UUID, device string) (*catalog.Product, error)
}

// SessionID returns the cart session the request carries, if any.
func SessionID(r *http.Request) (string, bool) {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id, true
	}
	if c, err := r.Cookie(SessionCookie); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value), true
	}
	return "", false
}

// EnsureSession returns the request's cart session, minting one and setting
// the session cookie when the request has none.
func EnsureSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := SessionID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
	return id
}

// Handler exposes cart HTTP endpoints.
type Handler struct {
	sessions *Sessions
	shops    ShopFinder
	products ProductFinder
	loc      *time.Location
	now      func() time.Time
}

func NewHandler(sessions *Sessions, shops ShopFinder, products ProductFinder, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{sessions: sessions, shops: shops, products: products, loc: loc, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/shops/{slug}/cart", h.getCart)
	r.Post("/api/v1/shops/{slug}/cart/items", h.addItem)
	r.Patch("/api/v1/shops/{slug}/cart/items/{productID}", h.updateQuantity)
	r.Delete("/api/v1/shops/{slug}/cart/items/{productID}", h.removeItem)
	r.Put("/api/v1/shops/{slug}/cart/customer", h.setCustomer)
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

type updateQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.session(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, sess.View())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	sess, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !shop.IsOpenAt(h.now().In(h.loc), s.OpenTime, s.CloseTime) {
		respondError(w, ErrShopClosed)
		return
	}
	p, err := h.products.GetProduct(r.Context(), s.ID, req.ProductID, override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	if !p.InStock() {
		respondError(w, ErrOutOfStock)
		return
	}
	sess.Do(func(c *Cart, _ *Customer) { c.Add(*p) })
	respond(w, http.StatusOK, sess.View())
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, catalog.ErrNotFound)
		return
	}
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	sess, _, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Do(func(c *Cart, _ *Customer) { c.UpdateQuantity(id, req.Delta) })
	respond(w, http.StatusOK, sess.View())
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, catalog.ErrNotFound)
		return
	}
	sess, _, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Do(func(c *Cart, _ *Customer) { c.Remove(id) })
	respond(w, http.StatusOK, sess.View())
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	var req Customer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	sess, _, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Do(func(_ *Cart, cu *Customer) { *cu = req })
	respond(w, http.StatusOK, sess.View())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, *shop.Shop, bool) {
	s, err := h.shops.GetBySlug(r.Context(), chi.URLParam(r, "slug"), override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return nil, nil, false
	}
	return h.sessions.Get(EnsureSession(w, r), s.ID), s, true
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shop.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrShopClosed), errors.Is(err, ErrOutOfStock):
		status = http.StatusConflict
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
