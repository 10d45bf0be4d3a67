package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/itsneelabh/gomind/resilience"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS shops (
		id                  UUID PRIMARY KEY,
		owner_user_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		slug                TEXT NOT NULL UNIQUE,
		shop_name           TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		address             TEXT NOT NULL DEFAULT '',
		logo_url            TEXT NOT NULL DEFAULT '',
		whatsapp_number     TEXT NOT NULL DEFAULT '',
		open_time           TEXT,
		close_time          TEXT,
		product_limit       INT NOT NULL DEFAULT 1,
		subscription_tier   TEXT NOT NULL DEFAULT 'free',
		subscription_expiry TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                   UUID PRIMARY KEY,
		shop_id              UUID NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
		name                 TEXT NOT NULL,
		price                DOUBLE PRECISION NOT NULL,
		mrp                  DOUBLE PRECISION,
		offer_price          DOUBLE PRECISION,
		description          TEXT,
		quantity_description TEXT,
		category             TEXT,
		image_url            TEXT,
		stock_status         TEXT NOT NULL DEFAULT 'available',
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS products_shop_idx ON products (shop_id, category)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id           UUID PRIMARY KEY,
		shop_id      UUID NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
		provider     TEXT NOT NULL,
		provider_ref TEXT NOT NULL UNIQUE,
		plan_name    TEXT NOT NULL,
		plan_tier    TEXT NOT NULL,
		amount       DOUBLE PRECISION NOT NULL,
		currency     TEXT NOT NULL,
		status       TEXT NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema if it does not exist, retrying each statement
// once a second while the database is still coming up.
func Migrate(ctx context.Context, db *sql.DB, retries int) error {
	cfg := &resilience.RetryConfig{
		MaxAttempts:   retries + 1,
		InitialDelay:  time.Second,
		MaxDelay:      time.Second,
		BackoffFactor: 1,
	}
	for _, stmt := range schema {
		var last error
		err := resilience.Retry(ctx, cfg, func() error {
			_, last = db.ExecContext(ctx, stmt)
			return last
		})
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("migrate: %w", ctx.Err())
			}
			return fmt.Errorf("migrate: %w", last)
		}
	}
	return nil
}
