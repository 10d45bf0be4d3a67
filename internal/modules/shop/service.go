package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itsneelabh/gomind/resilience"
	"github.com/rs/zerolog"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/modules/subscription"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
)

// Service defines shop business logic. Every read returns the effective shop
// for the calling device, with its hours overrides merged in.
type Service interface {
	// GetBySlug returns the public storefront.
	GetBySlug(ctx context.Context, slug, device string) (*Shop, error)

	// GetForOwner returns the shop only if ownerID owns it. A freshly created
	// shop may not be visible yet, so a miss is retried a few times.
	GetForOwner(ctx context.Context, slug string, ownerID uuid.UUID, device string) (*Shop, error)

	// GetByID returns the canonical shop.
	GetByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// SlugForOwner returns the slug of the shop owned by ownerID.
	SlugForOwner(ctx context.Context, ownerID uuid.UUID) (string, error)

	// CreateShop opens a new shop on the default plan.
	CreateShop(ctx context.Context, ownerID uuid.UUID, name string) (*Shop, error)

	// UpdateShop saves the hours overrides for the device, then the
	// canonical record.
	UpdateShop(ctx context.Context, slug string, ownerID uuid.UUID, device string, req UpdateShopRequest) (*Shop, error)

	// UpdateSubscription records a purchased plan on the shop.
	UpdateSubscription(ctx context.Context, shopID uuid.UUID, tier string, productLimit int, expiry *time.Time) error
}

type service struct {
	repo       Repository
	overrides  override.Store
	retries    int
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewService creates a new shop service.
func NewService(repo Repository, overrides override.Store) Service {
	return &service{
		repo:       repo,
		overrides:  overrides,
		retries:    3,
		retryDelay: time.Second,
		log:        logging.For("shop"),
	}
}

func (s *service) GetBySlug(ctx context.Context, slug, device string) (*Shop, error) {
	sh, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.effective(ctx, sh, device), nil
}

func (s *service) GetForOwner(ctx context.Context, slug string, ownerID uuid.UUID, device string) (*Shop, error) {
	var (
		sh      *Shop
		lookErr error
	)
	cfg := &resilience.RetryConfig{
		MaxAttempts:   s.retries + 1,
		InitialDelay:  s.retryDelay,
		MaxDelay:      s.retryDelay,
		BackoffFactor: 1,
	}
	err := resilience.Retry(ctx, cfg, func() error {
		sh, lookErr = s.repo.GetBySlugAndOwner(ctx, slug, ownerID)
		if errors.Is(lookErr, ErrNotFound) {
			s.log.Debug().Str("slug", slug).Msg("shop not found, retrying")
			return lookErr
		}
		// Any other outcome ends the loop; lookErr carries it.
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if lookErr != nil {
		return nil, lookErr
	}
	eff := s.effective(ctx, sh, device)
	eff.PlanValidity = subscription.ValidityLabel(eff.SubscriptionTier)
	return eff, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Shop, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) SlugForOwner(ctx context.Context, ownerID uuid.UUID) (string, error) {
	sh, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return sh.Slug, nil
}

func (s *service) CreateShop(ctx context.Context, ownerID uuid.UUID, name string) (*Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	slug := GenerateSlug(name)
	if slug == "" {
		return nil, ErrInvalidName
	}
	plan := subscription.Default()
	sh := &Shop{
		ID:               uuid.New(),
		OwnerUserID:      ownerID,
		Slug:             slug,
		ShopName:         name,
		ProductLimit:     plan.ProductLimit,
		SubscriptionTier: plan.Tier,
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return nil, err
	}
	s.log.Info().Str("shop_id", sh.ID.String()).Str("slug", slug).Msg("shop created")
	return sh, nil
}

func (s *service) UpdateShop(ctx context.Context, slug string, ownerID uuid.UUID, device string, req UpdateShopRequest) (*Shop, error) {
	if strings.TrimSpace(req.ShopName) == "" {
		return nil, ErrNameRequired
	}
	sh, err := s.repo.GetBySlugAndOwner(ctx, slug, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.overrides.Save(ctx, device, override.EntityShop, sh.ID.String(), OverrideValues(req)); err != nil {
		return nil, fmt.Errorf("save shop hours: %w", err)
	}

	sh.ShopName = strings.TrimSpace(req.ShopName)
	sh.Description = req.Description
	sh.Address = req.Address
	sh.WhatsappNumber = strings.TrimSpace(req.WhatsappNumber)
	sh.LogoURL = req.LogoURL
	sh.OpenTime = req.OpenTime
	sh.CloseTime = req.CloseTime
	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, err
	}
	return s.GetForOwner(ctx, slug, ownerID, device)
}

func (s *service) UpdateSubscription(ctx context.Context, shopID uuid.UUID, tier string, productLimit int, expiry *time.Time) error {
	return s.repo.UpdateSubscription(ctx, shopID, tier, productLimit, expiry)
}

// effective merges the device's overrides on top of the canonical shop. An
// unreachable override store degrades to the canonical record.
func (s *service) effective(ctx context.Context, sh *Shop, device string) *Shop {
	set, err := s.overrides.Load(ctx, device, override.EntityShop, sh.ID.String(), OverridableFields...)
	if err != nil {
		s.log.Warn().Err(err).Str("shop_id", sh.ID.String()).Msg("override store unavailable, using canonical shop")
		return sh
	}
	eff := ApplyOverrides(*sh, set)
	return &eff
}
