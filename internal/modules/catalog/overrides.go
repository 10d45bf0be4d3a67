package catalog

import (
	"strings"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
)

// ApplyOverrides returns the effective product. A stored override replaces the
// canonical field; an empty mrp or offer_price override clears it, and a
// numeric override that does not parse keeps the canonical value. The sale
// price falls back to the canonical price.
func ApplyOverrides(p Product, o override.Set) Product {
	p.MRP = numberOverride(o, FieldMRP, p.MRP)
	p.OfferPrice = numberOverride(o, FieldOfferPrice, p.OfferPrice)
	if v, ok := o.String(FieldQuantityDescription); ok {
		p.QuantityDescription = v
	}
	if v, ok := o.String(FieldStockStatus); ok && StockStatus(v).Valid() {
		p.StockStatus = StockStatus(v)
	}
	if !p.StockStatus.Valid() {
		p.StockStatus = StockAvailable
	}
	if p.OfferPrice == nil {
		price := p.Price
		p.OfferPrice = &price
	}
	return p
}

func numberOverride(o override.Set, field string, canonical *float64) *float64 {
	raw, ok := o.String(field)
	switch {
	case !ok:
		return canonical
	case strings.TrimSpace(raw) == "":
		return nil
	case canonical != nil:
		v := o.NumberOr(field, *canonical)
		return &v
	}
	if v, ok := override.ParseNumber(raw); ok {
		return &v
	}
	return nil
}

// OverrideValues are the values written on every admin save, changed or not:
// an empty mrp is stored as "" and a missing offer price as the price.
func OverrideValues(req ProductRequest) override.Set {
	mrp := ""
	if req.MRP != nil {
		mrp = override.FormatNumber(*req.MRP)
	}
	offer := req.Price
	if req.OfferPrice != nil {
		offer = *req.OfferPrice
	}
	status := req.StockStatus
	if !status.Valid() {
		status = StockAvailable
	}
	return override.Set{
		FieldMRP:                 mrp,
		FieldOfferPrice:          override.FormatNumber(offer),
		FieldQuantityDescription: req.QuantityDescription,
		FieldStockStatus:         string(status),
	}
}
