package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
)

// Quota is what the shop's plan allows when a product is created.
type Quota struct {
	Limit   int
	Expired bool
}

// Service defines catalog business logic. Every product it returns is the
// effective product for the calling device.
type Service interface {
	// ListForShop returns the customer menu, ordered by category.
	ListForShop(ctx context.Context, shopID uuid.UUID, device string) ([]Product, error)

	// ListForAdmin returns every product, newest first.
	ListForAdmin(ctx context.Context, shopID uuid.UUID, device string) ([]Product, error)

	GetProduct(ctx context.Context, shopID, id uuid.UUID, device string) (*Product, error)
	CreateProduct(ctx context.Context, shopID uuid.UUID, quota Quota, device string, req ProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, shopID, id uuid.UUID, device string, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, shopID, id uuid.UUID) error
	CountProducts(ctx context.Context, shopID uuid.UUID) (int, error)
}

type service struct {
	repo      Repository
	overrides override.Store
	log       zerolog.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, overrides override.Store) Service {
	return &service{repo: repo, overrides: overrides, log: logging.For("catalog")}
}

func (s *service) ListForShop(ctx context.Context, shopID uuid.UUID, device string) ([]Product, error) {
	return s.list(ctx, shopID, device, ByCategory)
}

func (s *service) ListForAdmin(ctx context.Context, shopID uuid.UUID, device string) ([]Product, error) {
	return s.list(ctx, shopID, device, Newest)
}

func (s *service) list(ctx context.Context, shopID uuid.UUID, device string, order Order) ([]Product, error) {
	products, err := s.repo.ListByShop(ctx, shopID, order)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	for i := range products {
		products[i] = s.effective(ctx, products[i], device)
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, shopID, id uuid.UUID, device string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	eff := s.effective(ctx, *p, device)
	return &eff, nil
}

func (s *service) CreateProduct(ctx context.Context, shopID uuid.UUID, quota Quota, device string, req ProductRequest) (*Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if quota.Expired {
		return nil, ErrSubscriptionExpired
	}
	count, err := s.repo.CountByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count >= quota.Limit {
		return nil, ErrProductLimitReached
	}

	p := &Product{ID: uuid.New(), ShopID: shopID}
	applyCanonical(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if err := s.saveOverrides(ctx, device, p.ID, req); err != nil {
		return nil, err
	}
	s.log.Info().Str("shop_id", shopID.String()).Str("product_id", p.ID.String()).Msg("product created")
	return s.GetProduct(ctx, shopID, p.ID, device)
}

func (s *service) UpdateProduct(ctx context.Context, shopID, id uuid.UUID, device string, req ProductRequest) (*Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	applyCanonical(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.saveOverrides(ctx, device, id, req); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, shopID, id, device)
}

func (s *service) DeleteProduct(ctx context.Context, shopID, id uuid.UUID) error {
	return s.repo.Delete(ctx, shopID, id)
}

func (s *service) CountProducts(ctx context.Context, shopID uuid.UUID) (int, error) {
	return s.repo.CountByShop(ctx, shopID)
}

// ── helpers ──────────────────────────────────────────────────────────────────

// effective merges the device's overrides into p. When the override store
// cannot be read the canonical product is used.
func (s *service) effective(ctx context.Context, p Product, device string) Product {
	set, err := s.overrides.Load(ctx, device, override.EntityProduct, p.ID.String(), OverridableFields...)
	if err != nil {
		s.log.Warn().Err(err).Str("product_id", p.ID.String()).Msg("override store unavailable, using canonical product")
		set = nil
	}
	return ApplyOverrides(p, set)
}

func (s *service) saveOverrides(ctx context.Context, device string, id uuid.UUID, req ProductRequest) error {
	if err := s.overrides.Save(ctx, device, override.EntityProduct, id.String(), OverrideValues(req)); err != nil {
		return fmt.Errorf("save product overrides: %w", err)
	}
	return nil
}

func validate(req ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrNameRequired
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) || req.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func applyCanonical(p *Product, req ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Price = req.Price
	p.Description = req.Description
	p.Category = strings.TrimSpace(req.Category)
	p.ImageURL = req.ImageURL
}
