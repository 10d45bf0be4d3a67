package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("payment not found")
	ErrDuplicate = errors.New("payment already recorded")
)

// Repository defines data access for recorded payments.
type Repository interface {
	// Create returns ErrDuplicate when the provider reference is already stored.
	Create(ctx context.Context, p *Payment) error
	GetByProviderRef(ctx context.Context, provider, ref string) (*Payment, error)
	// SetStatus returns ErrNotFound for an unknown id.
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	// ListByShop returns the shop's payments, newest first.
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Payment, error)
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *Payment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments
		  (id, shop_id, provider, provider_ref, plan_name, plan_tier, amount, currency, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING payment_date`,
		p.ID, p.ShopID, p.Provider, p.ProviderRef, p.PlanName, p.PlanTier,
		p.Amount, p.Currency, p.Status,
	).Scan(&p.PaymentDate)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *postgresRepo) GetByProviderRef(ctx context.Context, provider, ref string) (*Payment, error) {
	p, err := scan(r.db.QueryRowContext(ctx, selectSQL+" WHERE provider=$1 AND provider_ref=$2", provider, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE payments SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Payment, error) {
	rows, err := r.db.QueryContext(ctx, selectSQL+" WHERE shop_id=$1 ORDER BY payment_date DESC", shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := []*Payment{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ── Scanner ───────────────────────────────────────────────────────────────────

const selectSQL = `
	SELECT id, shop_id, provider, provider_ref, plan_name, plan_tier, amount,
	       currency, status, payment_date
	FROM payments`

type rowScanner interface{ Scan(dest ...interface{}) error }

func scan(row rowScanner) (*Payment, error) {
	p := &Payment{}
	err := row.Scan(&p.ID, &p.ShopID, &p.Provider, &p.ProviderRef, &p.PlanName, &p.PlanTier,
		&p.Amount, &p.Currency, &p.Status, &p.PaymentDate)
	if err != nil {
		return nil, err
	}
	return p, nil
}
