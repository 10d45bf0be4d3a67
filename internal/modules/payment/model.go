package payment

import (
	"time"

	"github.com/google/uuid"
)

// ProviderRazorpay is the only gateway plans are sold through.
const ProviderRazorpay = "razorpay"

// Outcome is the single result of a checkout attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeCancelled Outcome = "cancelled"
)

// Stored payment statuses. A payment stays pending until its plan has been
// applied to the shop.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
)

// Payment is a recorded plan purchase.
type Payment struct {
	ID          uuid.UUID `json:"id"`
	ShopID      uuid.UUID `json:"shop_id"`
	Provider    string    `json:"provider"`
	ProviderRef string    `json:"provider_ref"`
	PlanName    string    `json:"plan_name"`
	PlanTier    string    `json:"plan_tier"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	PaymentDate time.Time `json:"payment_date"`
}

// VerifyRequest is sent by the client once the hosted checkout closes.
// Outcome is "cancelled" when the customer dismissed the checkout and
// "failure" when the gateway reported a failed payment; both skip verification.
type VerifyRequest struct {
	PaymentID string  `json:"razorpay_payment_id"`
	PlanTier  string  `json:"plan_tier"`
	Outcome   Outcome `json:"outcome,omitempty"`
}

// Result is the outcome of a verification together with what it changed.
type Result struct {
	Outcome            Outcome    `json:"outcome"`
	Payment            *Payment   `json:"payment,omitempty"`
	SubscriptionTier   string     `json:"subscription_tier,omitempty"`
	ProductLimit       int        `json:"product_limit,omitempty"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	AlreadyApplied     bool       `json:"already_applied,omitempty"`
}

// GatewayPayment is a payment as reported by the gateway. Amount is in the
// currency's minor unit.
type GatewayPayment struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// Gateway payment statuses.
const (
	GatewayCreated    = "created"
	GatewayAuthorized = "authorized"
	GatewayCaptured   = "captured"
	GatewayFailed     = "failed"
	GatewayRefunded   = "refunded"
)
