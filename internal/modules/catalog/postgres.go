package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `
	SELECT id, shop_id, name, price, mrp, offer_price, description, quantity_description,
	       category, image_url, stock_status, created_at, updated_at
	FROM products`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, shop_id, name, price, description, category, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING stock_status, created_at, updated_at`,
		p.ID, p.ShopID, p.Name, p.Price,
		nullIfEmpty(p.Description), nullIfEmpty(p.Category), nullIfEmpty(p.ImageURL),
	).Scan(&p.StockStatus, &p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, shopID, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx, selectSQL+` WHERE shop_id=$1 AND id=$2`, shopID, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListByShop(ctx context.Context, shopID uuid.UUID, order Order) ([]Product, error) {
	orderBy := ` ORDER BY category ASC NULLS LAST, name ASC`
	if order == Newest {
		orderBy = ` ORDER BY created_at DESC`
	}
	rows, err := r.db.QueryContext(ctx, selectSQL+` WHERE shop_id=$1`+orderBy, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, price=$2, description=$3, category=$4, image_url=$5, updated_at=NOW()
		WHERE shop_id=$6 AND id=$7`,
		p.Name, p.Price, nullIfEmpty(p.Description), nullIfEmpty(p.Category), nullIfEmpty(p.ImageURL),
		p.ShopID, p.ID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *postgresRepo) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE shop_id=$1 AND id=$2`, shopID, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *postgresRepo) CountByShop(ctx context.Context, shopID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE shop_id=$1`, shopID).Scan(&n)
	return n, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(s scanner) (*Product, error) {
	p := &Product{}
	var mrp, offer sql.NullFloat64
	var desc, qty, category, image sql.NullString
	err := s.Scan(&p.ID, &p.ShopID, &p.Name, &p.Price, &mrp, &offer, &desc, &qty,
		&category, &image, &p.StockStatus, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if mrp.Valid {
		p.MRP = &mrp.Float64
	}
	if offer.Valid {
		p.OfferPrice = &offer.Float64
	}
	p.Description = desc.String
	p.QuantityDescription = qty.String
	p.Category = category.String
	p.ImageURL = image.String
	return p, nil
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
