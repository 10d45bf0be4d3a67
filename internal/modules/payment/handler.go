package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Razorpay-Signature"

// ShopFinder resolves the owner's shop.
type ShopFinder interface {
	GetForOwner(ctx context.Context, slug string, ownerID uuid.UUID, device string) (*shop.Shop, error)
}

// Handler exposes payment HTTP endpoints.
type Handler struct {
	service       Service
	shops         ShopFinder
	requireUser   func(http.Handler) http.Handler
	webhookSecret string
}

func NewHandler(service Service, shops ShopFinder, requireUser func(http.Handler) http.Handler, webhookSecret string) *Handler {
	return &Handler{service: service, shops: shops, requireUser: requireUser, webhookSecret: webhookSecret}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	admin := r.With(h.requireUser)
	admin.Post("/api/v1/admin/shops/{slug}/payments/verify", h.verify)
	admin.Get("/api/v1/admin/shops/{slug}/payments", h.list)

	// Webhooks are signed by the provider, no user auth.
	r.Post("/api/v1/webhooks/razorpay", h.webhook)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	s, ok := h.ownedShop(w, r)
	if !ok {
		return
	}
	res, err := h.service.VerifyPlanPayment(r.Context(), s, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedShop(w, r)
	if !ok {
		return
	}
	payments, err := h.service.ListPayments(r.Context(), s.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, payments)
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity GatewayPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "unreadable payload"})
		return
	}
	if !ValidSignature(body, r.Header.Get(SignatureHeader), h.webhookSecret) {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
		return
	}
	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if ev.Event != "payment.captured" {
		respond(w, http.StatusOK, map[string]string{"status": "ignored", "reason": ev.Event})
		return
	}
	res, err := h.service.HandleWebhook(r.Context(), ev.Payload.Payment.Entity)
	if err != nil {
		// 200 stops the provider from retrying events we cannot apply.
		respond(w, http.StatusOK, map[string]string{"status": "ignored", "reason": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"status": "processed", "result": res})
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

// ── Helpers ───────────────────────────────────────────────────────────────────

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shop.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrPaymentIDRequired), errors.Is(err, ErrUnknownPlan):
		status = http.StatusBadRequest
	case errors.Is(err, ErrAmountMismatch), errors.Is(err, ErrNotCaptured):
		status = http.StatusPaymentRequired
	case errors.Is(err, ErrGateway):
		status = http.StatusBadGateway
	case errors.Is(err, ErrDuplicate):
		status = http.StatusConflict
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
