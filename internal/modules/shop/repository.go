package shop

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("shop not found")
	ErrSlugTaken    = errors.New("a shop with this name already exists")
	ErrNameRequired = errors.New("shop_name is required")
	ErrInvalidName  = errors.New("shop name must contain letters or digits")
)

// Repository defines the interface for shop data storage.
type Repository interface {
	Create(ctx context.Context, s *Shop) error

	GetByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// GetBySlug returns ErrNotFound when no shop has the slug.
	GetBySlug(ctx context.Context, slug string) (*Shop, error)

	// GetBySlugAndOwner returns ErrNotFound unless ownerID owns the shop.
	GetBySlugAndOwner(ctx context.Context, slug string, ownerID uuid.UUID) (*Shop, error)

	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Shop, error)

	// Update writes the editable canonical fields.
	Update(ctx context.Context, s *Shop) error

	UpdateSubscription(ctx context.Context, id uuid.UUID, tier string, productLimit int, expiry *time.Time) error
}
