package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("product not found")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidPrice        = errors.New("price must be a non-negative number")
	ErrProductLimitReached = errors.New("product limit reached, upgrade your plan to add more products")
	ErrSubscriptionExpired = errors.New("subscription expired, renew your plan to add products")
)

// Order selects how ListByShop sorts products.
type Order int

const (
	// ByCategory sorts by category ascending, the customer menu order.
	ByCategory Order = iota
	// Newest sorts by creation time descending, the admin order.
	Newest
)

// Repository defines the interface for product data storage. Every lookup is
// scoped to one shop.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*Product, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, order Order) ([]Product, error)

	// Update writes the canonical fields only.
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, shopID, id uuid.UUID) error
	CountByShop(ctx context.Context, shopID uuid.UUID) (int, error)
}
