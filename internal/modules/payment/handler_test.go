package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/identity"
)

type ownerShops struct{ shop *shop.Shop }

func (o ownerShops) GetForOwner(_ context.Context, slug string, ownerID uuid.UUID, _ string) (*shop.Shop, error) {
	if slug != o.shop.Slug || ownerID != o.shop.OwnerUserID {
		return nil, shop.ErrNotFound
	}
	return o.shop, nil
}

func newPaymentRouter(t *testing.T) (*chi.Mux, *fakeShops, *fakeRepo) {
	t.Helper()
	gw := &fakeGateway{payments: map[string]GatewayPayment{
		"pay_1": {ID: "pay_1", Amount: 10000, Currency: "INR", Status: GatewayCaptured},
	}}
	svc, repo, shops := newPaymentService(gw)
	shops.shop.OwnerUserID = uuid.New()
	asOwner := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), shops.shop.OwnerUserID)))
		})
	}
	r := chi.NewRouter()
	NewHandler(svc, ownerShops{shop: shops.shop}, asOwner, "whsec").RegisterRoutes(r)
	return r, shops, repo
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyEndpoint(t *testing.T) {
	r, shops, _ := newPaymentRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/shops/tea-house/payments/verify",
		strings.NewReader(`{"razorpay_payment_id":"pay_1","plan_tier":"basic"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"outcome":"success"`)
	assert.Equal(t, "basic", shops.shop.SubscriptionTier)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/shops/tea-house/payments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"provider_ref":"pay_1"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/shops/tea-house/payments/verify",
		strings.NewReader(`{"razorpay_payment_id":"pay_404","plan_tier":"basic"}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWebhookEndpoint(t *testing.T) {
	r, shops, repo := newPaymentRouter(t)
	body := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_w","amount":20000,"currency":"INR","status":"captured","notes":{"shop_id":"` +
		shops.shop.ID.String() + `","plan_tier":"pro"}}}}}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", strings.NewReader(body))
	req.Header.Set(SignatureHeader, "bad")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", strings.NewReader(body))
	req.Header.Set(SignatureHeader, sign(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"processed"`)
	assert.Equal(t, "pro", shops.shop.SubscriptionTier)
	assert.Len(t, repo.payments, 1)

	other := `{"event":"payment.failed","payload":{}}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", strings.NewReader(other))
	req.Header.Set(SignatureHeader, sign(other))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"status":"ignored"`)
}
