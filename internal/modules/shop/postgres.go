package shop

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT s.id, s.owner_user_id, s.slug, s.shop_name, s.description, s.address,
	       s.logo_url, s.whatsapp_number, s.open_time, s.close_time, s.product_limit,
	       (SELECT COUNT(*) FROM products p WHERE p.shop_id = s.id),
	       s.subscription_tier, s.subscription_expiry, s.created_at, s.updated_at
	FROM shops s`

func (r *postgresRepo) Create(ctx context.Context, s *Shop) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shops (id, owner_user_id, slug, shop_name, product_limit, subscription_tier)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.OwnerUserID, s.Slug, s.ShopName, s.ProductLimit, s.SubscriptionTier)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrSlugTaken
	}
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Shop, error) {
	return scanShop(r.db.QueryRowContext(ctx, selectSQL+` WHERE s.id=$1`, id))
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*Shop, error) {
	return scanShop(r.db.QueryRowContext(ctx, selectSQL+` WHERE s.slug=$1`, slug))
}

func (r *postgresRepo) GetBySlugAndOwner(ctx context.Context, slug string, ownerID uuid.UUID) (*Shop, error) {
	return scanShop(r.db.QueryRowContext(ctx, selectSQL+` WHERE s.slug=$1 AND s.owner_user_id=$2`, slug, ownerID))
}

func (r *postgresRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Shop, error) {
	return scanShop(r.db.QueryRowContext(ctx, selectSQL+` WHERE s.owner_user_id=$1 ORDER BY s.created_at LIMIT 1`, ownerID))
}

func (r *postgresRepo) Update(ctx context.Context, s *Shop) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE shops
		SET shop_name=$1, description=$2, address=$3, whatsapp_number=$4, logo_url=$5,
		    open_time=$6, close_time=$7, updated_at=NOW()
		WHERE id=$8`,
		s.ShopName, s.Description, s.Address, s.WhatsappNumber, s.LogoURL,
		nullIfEmpty(s.OpenTime), nullIfEmpty(s.CloseTime), s.ID)
	return err
}

func (r *postgresRepo) UpdateSubscription(ctx context.Context, id uuid.UUID, tier string, productLimit int, expiry *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE shops SET subscription_tier=$1, product_limit=$2, subscription_expiry=$3, updated_at=NOW()
		WHERE id=$4`,
		tier, productLimit, expiry, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanShop(row *sql.Row) (*Shop, error) {
	s := &Shop{}
	var openTime, closeTime sql.NullString
	var expiry sql.NullTime
	err := row.Scan(&s.ID, &s.OwnerUserID, &s.Slug, &s.ShopName, &s.Description, &s.Address,
		&s.LogoURL, &s.WhatsappNumber, &openTime, &closeTime, &s.ProductLimit,
		&s.ProductCount, &s.SubscriptionTier, &expiry, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.OpenTime = openTime.String
	s.CloseTime = closeTime.String
	if expiry.Valid {
		s.SubscriptionExpiry = &expiry.Time
	}
	return s, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
