package shop

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// fakeRepo keeps shops in memory. hideFor makes GetBySlugAndOwner miss the
// first n lookups.
type fakeRepo struct {
	mu      sync.Mutex
	shops   map[string]*Shop
	hideFor int
	lookups int
}

func newFakeRepo(shops ...*Shop) *fakeRepo {
	r := &fakeRepo{shops: map[string]*Shop{}}
	for _, s := range shops {
		r.shops[s.Slug] = s
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, s *Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shops[s.Slug]; ok {
		return ErrSlugTaken
	}
	cp := *s
	r.shops[s.Slug] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shops {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetBySlug(_ context.Context, slug string) (*Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[slug]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) GetBySlugAndOwner(ctx context.Context, slug string, ownerID uuid.UUID) (*Shop, error) {
	r.mu.Lock()
	r.lookups++
	hidden := r.lookups <= r.hideFor
	r.mu.Unlock()
	if hidden {
		return nil, ErrNotFound
	}
	s, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if s.OwnerUserID != ownerID {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) GetByOwner(_ context.Context, ownerID uuid.UUID) (*Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shops {
		if s.OwnerUserID == ownerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Update(_ context.Context, s *Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shops[s.Slug]; !ok {
		return ErrNotFound
	}
	cp := *s
	r.shops[s.Slug] = &cp
	return nil
}

func (r *fakeRepo) UpdateSubscription(_ context.Context, id uuid.UUID, tier string, productLimit int, expiry *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shops {
		if s.ID == id {
			s.SubscriptionTier = tier
			s.ProductLimit = productLimit
			s.SubscriptionExpiry = expiry
			return nil
		}
	}
	return ErrNotFound
}
