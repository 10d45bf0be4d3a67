package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/cart"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
)

// ShopFinder resolves the effective shop for a device.
type ShopFinder interface {
	GetBySlug(ctx context.Context, slug, device string) (*shop.Shop, error)
}

// Handler exposes the checkout endpoint.
type Handler struct {
	service  Service
	shops    ShopFinder
	sessions *cart.Sessions
}

func NewHandler(service Service, shops ShopFinder, sessions *cart.Sessions) *Handler {
	return &Handler{service: service, shops: shops, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/v1/shops/{slug}/checkout", h.checkout)
}

// checkout sends the visitor's cart. A JSON body, when present, replaces the
// customer details first. With ?redirect=1 the response redirects to the
// messaging link instead of returning the receipt.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var customer *cart.Customer
	if r.Body != nil {
		var c cart.Customer
		err := json.NewDecoder(r.Body).Decode(&c)
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		default:
			customer = &c
		}
	}

	s, err := h.shops.GetBySlug(r.Context(), chi.URLParam(r, "slug"), override.DeviceFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	id, ok := cart.SessionID(r)
	if !ok {
		respondError(w, ErrNoSession)
		return
	}
	sess := h.sessions.Get(id, s.ID)
	if customer != nil {
		sess.Do(func(_ *cart.Cart, cu *cart.Customer) { *cu = *customer })
	}

	receipt, err := h.service.Checkout(r.Context(), s, sess, r.Header.Get(IdempotencyHeader))
	if err != nil {
		respondError(w, err)
		return
	}
	if r.URL.Query().Get("redirect") == "1" {
		http.Redirect(w, r, receipt.Link, http.StatusSeeOther)
		return
	}
	respond(w, http.StatusOK, receipt)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shop.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrNoSession):
		status = http.StatusBadRequest
	case errors.Is(err, ErrMessagingNotConfigured):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrDuplicateCheckout):
		status = http.StatusConflict
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
