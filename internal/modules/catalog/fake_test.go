package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu       sync.Mutex
	products []Product
	clock    time.Time
}

func (r *fakeRepo) Create(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Minute)
	p.StockStatus = StockAvailable
	p.CreatedAt, p.UpdatedAt = r.clock, r.clock
	r.products = append(r.products, *p)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, shopID, id uuid.UUID) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ShopID == shopID && p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListByShop(_ context.Context, shopID uuid.UUID, order Order) ([]Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Product
	for _, p := range r.products {
		if p.ShopID == shopID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == Newest {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == p.ID && r.products[i].ShopID == p.ShopID {
			r.products[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) Delete(_ context.Context, shopID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id && r.products[i].ShopID == shopID {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) CountByShop(_ context.Context, shopID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.products {
		if p.ShopID == shopID {
			n++
		}
	}
	return n, nil
}
