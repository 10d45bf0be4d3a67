package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/shop"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/subscription"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
)

var (
	ErrPaymentIDRequired = errors.New("razorpay_payment_id is required")
	ErrUnknownPlan       = errors.New("unknown or free plan")
	ErrAmountMismatch    = errors.New("paid amount does not match the plan price")
	ErrNotCaptured       = errors.New("payment is not complete")
)

// Shops is the part of the shop service payments need.
type Shops interface {
	GetByID(ctx context.Context, id uuid.UUID) (*shop.Shop, error)
	UpdateSubscription(ctx context.Context, shopID uuid.UUID, tier string, productLimit int, expiry *time.Time) error
}

// Service defines plan purchase logic.
type Service interface {
	// VerifyPlanPayment checks a payment with the gateway, records it and
	// applies the plan to the shop. Cancelled and failed checkouts change
	// nothing.
	VerifyPlanPayment(ctx context.Context, s *shop.Shop, req VerifyRequest) (*Result, error)

	// HandleWebhook applies a payment the gateway reports as captured. The
	// shop and plan come from the payment notes.
	HandleWebhook(ctx context.Context, p GatewayPayment) (*Result, error)

	ListPayments(ctx context.Context, shopID uuid.UUID) ([]*Payment, error)
}

type service struct {
	repo    Repository
	gateway Gateway
	shops   Shops
	now     func() time.Time
	log     zerolog.Logger
}

func NewService(repo Repository, gateway Gateway, shops Shops) Service {
	return &service{repo: repo, gateway: gateway, shops: shops, now: time.Now, log: logging.For("payment")}
}

func (s *service) VerifyPlanPayment(ctx context.Context, sh *shop.Shop, req VerifyRequest) (*Result, error) {
	switch req.Outcome {
	case OutcomeCancelled, OutcomeFailure:
		s.log.Info().Str("shop_id", sh.ID.String()).Str("outcome", string(req.Outcome)).Msg("checkout closed without payment")
		return &Result{Outcome: req.Outcome}, nil
	}

	ref := strings.TrimSpace(req.PaymentID)
	if ref == "" {
		return nil, ErrPaymentIDRequired
	}
	plan, ok := subscription.Find(req.PlanTier)
	if !ok || plan.Price == 0 {
		return nil, ErrUnknownPlan
	}
	existing, err := s.recorded(ctx, ref)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.ShopID != sh.ID {
			return nil, ErrDuplicate
		}
		return s.resume(ctx, sh, existing)
	}

	gp, err := s.gateway.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if gp.Status == GatewayFailed {
		return &Result{Outcome: OutcomeFailure}, nil
	}
	if gp.Amount != plan.AmountMinor() || !strings.EqualFold(gp.Currency, subscription.Currency) {
		s.log.Warn().Str("payment_id", ref).Int64("amount", gp.Amount).Str("currency", gp.Currency).
			Str("plan", plan.Tier).Msg("payment amount mismatch")
		return nil, ErrAmountMismatch
	}
	if gp.Status == GatewayAuthorized {
		if gp, err = s.gateway.Capture(ctx, ref, gp.Amount, gp.Currency); err != nil {
			return nil, err
		}
	}
	if gp.Status != GatewayCaptured {
		return nil, fmt.Errorf("%w: status %s", ErrNotCaptured, gp.Status)
	}
	return s.apply(ctx, sh, plan, ref)
}

func (s *service) HandleWebhook(ctx context.Context, gp GatewayPayment) (*Result, error) {
	if gp.Status != GatewayCaptured {
		return nil, fmt.Errorf("%w: status %s", ErrNotCaptured, gp.Status)
	}
	existing, err := s.recorded(ctx, gp.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		sh, err := s.shops.GetByID(ctx, existing.ShopID)
		if err != nil {
			return nil, err
		}
		return s.resume(ctx, sh, existing)
	}

	shopID, err := uuid.Parse(gp.Notes["shop_id"])
	if err != nil {
		return nil, fmt.Errorf("webhook payment %s: missing shop_id note", gp.ID)
	}
	plan, ok := subscription.Find(gp.Notes["plan_tier"])
	if !ok || plan.Price == 0 {
		return nil, ErrUnknownPlan
	}
	if gp.Amount != plan.AmountMinor() || !strings.EqualFold(gp.Currency, subscription.Currency) {
		return nil, ErrAmountMismatch
	}
	sh, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, sh, plan, gp.ID)
}

func (s *service) ListPayments(ctx context.Context, shopID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListByShop(ctx, shopID)
}

// ── helpers ──────────────────────────────────────────────────────────────────

// recorded returns the stored payment for ref, or nil when there is none.
func (s *service) recorded(ctx context.Context, ref string) (*Payment, error) {
	p, err := s.repo.GetByProviderRef(ctx, ProviderRazorpay, ref)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up payment: %w", err)
	}
	return p, nil
}

// resume finishes a payment recorded earlier. A pending payment means the
// plan was never applied, so it is applied now.
func (s *service) resume(ctx context.Context, sh *shop.Shop, p *Payment) (*Result, error) {
	if p.Status == StatusSuccess {
		return &Result{Outcome: OutcomeSuccess, Payment: p, SubscriptionTier: p.PlanTier, AlreadyApplied: true}, nil
	}
	plan, ok := subscription.Find(p.PlanTier)
	if !ok {
		return nil, ErrUnknownPlan
	}
	s.log.Warn().Str("payment_id", p.ProviderRef).Msg("resuming pending payment")
	return s.finish(ctx, sh, plan, p)
}

func (s *service) apply(ctx context.Context, sh *shop.Shop, plan subscription.Plan, ref string) (*Result, error) {
	p := &Payment{
		ID:          uuid.New(),
		ShopID:      sh.ID,
		Provider:    ProviderRazorpay,
		ProviderRef: ref,
		PlanName:    plan.Name,
		PlanTier:    plan.Tier,
		Amount:      plan.Price,
		Currency:    subscription.Currency,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			return nil, fmt.Errorf("record payment: %w", err)
		}
		existing, lookErr := s.recorded(ctx, ref)
		if lookErr != nil || existing == nil {
			return nil, fmt.Errorf("record payment: %w", err)
		}
		if existing.ShopID != sh.ID {
			return nil, ErrDuplicate
		}
		return s.resume(ctx, sh, existing)
	}
	return s.finish(ctx, sh, plan, p)
}

// finish applies the plan to the shop and only then marks the payment
// successful, so a failed update leaves it pending for the next attempt.
func (s *service) finish(ctx context.Context, sh *shop.Shop, plan subscription.Plan, p *Payment) (*Result, error) {
	expiry := subscription.NextExpiry(sh.SubscriptionExpiry, s.now(), plan)
	if err := s.shops.UpdateSubscription(ctx, sh.ID, plan.Tier, plan.ProductLimit, expiry); err != nil {
		return nil, fmt.Errorf("apply plan: %w", err)
	}
	if err := s.repo.SetStatus(ctx, p.ID, StatusSuccess); err != nil {
		return nil, fmt.Errorf("mark payment applied: %w", err)
	}
	p.Status = StatusSuccess
	s.log.Info().
		Str("shop_id", sh.ID.String()).
		Str("payment_id", p.ProviderRef).
		Str("plan", plan.Tier).
		Msg("plan purchased")
	return &Result{
		Outcome:            OutcomeSuccess,
		Payment:            p,
		SubscriptionTier:   plan.Tier,
		ProductLimit:       plan.ProductLimit,
		SubscriptionExpiry: expiry,
	}, nil
}
