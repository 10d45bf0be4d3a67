package catalog

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// StockStatus tells customers whether a product can be ordered.
type StockStatus string

const (
	StockAvailable StockStatus = "available"
	StockLimited   StockStatus = "limited_stock"
	StockOut       StockStatus = "out_of_stock"
)

// Valid reports whether s is one of the known statuses.
func (s StockStatus) Valid() bool {
	switch s {
	case StockAvailable, StockLimited, StockOut:
		return true
	}
	return false
}

// Overridable product fields.
const (
	FieldMRP                 = "mrp"
	FieldOfferPrice          = "offer_price"
	FieldQuantityDescription = "quantity_description"
	FieldStockStatus         = "stock_status"
)

// OverridableFields lists every product field a device may override.
var OverridableFields = []string{FieldMRP, FieldOfferPrice, FieldQuantityDescription, FieldStockStatus}

// Product is an item on a shop's menu. MRP and OfferPrice are nil when unset;
// once overrides are applied OfferPrice is always set.
type Product struct {
	ID                  uuid.UUID   `json:"id"`
	ShopID              uuid.UUID   `json:"shop_id"`
	Name                string      `json:"name"`
	Price               float64     `json:"price"`
	MRP                 *float64    `json:"mrp"`
	OfferPrice          *float64    `json:"offer_price"`
	Description         string      `json:"description,omitempty"`
	QuantityDescription string      `json:"quantity_description,omitempty"`
	Category            string      `json:"category,omitempty"`
	ImageURL            string      `json:"image_url,omitempty"`
	StockStatus         StockStatus `json:"stock_status"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// SalePrice is the offer price, or the canonical price when there is none.
func (p *Product) SalePrice() float64 {
	if p.OfferPrice != nil {
		return *p.OfferPrice
	}
	return p.Price
}

// IsDiscounted reports whether the list price exceeds the sale price.
func (p *Product) IsDiscounted() bool {
	return p.MRP != nil && *p.MRP > p.SalePrice()
}

// DiscountPercent is round((mrp - sale) / mrp * 100), or 0 when the product
// is not discounted.
func (p *Product) DiscountPercent() int {
	if !p.IsDiscounted() || *p.MRP <= 0 {
		return 0
	}
	return int(math.Floor((*p.MRP-p.SalePrice())/(*p.MRP)*100 + 0.5))
}

// MarshalJSON adds the derived discount fields shown on the menu.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		IsDiscounted    bool `json:"is_discounted"`
		DiscountPercent int  `json:"discount_percent"`
	}{
		product:         product(p),
		IsDiscounted:    p.IsDiscounted(),
		DiscountPercent: p.DiscountPercent(),
	})
}

// InStock reports whether the product may be added to a cart.
func (p *Product) InStock() bool {
	return p.StockStatus != StockOut
}

// ProductRequest is the admin form for creating or editing a product.
type ProductRequest struct {
	Name                string      `json:"name"`
	Price               float64     `json:"price"`
	MRP                 *float64    `json:"mrp"`
	OfferPrice          *float64    `json:"offer_price"`
	Description         string      `json:"description"`
	QuantityDescription string      `json:"quantity_description"`
	Category            string      `json:"category"`
	ImageURL            string      `json:"image_url"`
	StockStatus         StockStatus `json:"stock_status"`
}
