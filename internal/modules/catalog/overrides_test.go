package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/qrmenu-backend/internal/modules/override"
)

func TestApplyOverrides(t *testing.T) {
	canonical := Product{Name: "Chocolate Cake", Price: 500, StockStatus: StockAvailable, QuantityDescription: "1kg"}

	eff := ApplyOverrides(canonical, override.Set{
		FieldMRP:                 "999",
		FieldOfferPrice:          "599",
		FieldQuantityDescription: "500g",
		FieldStockStatus:         "limited_stock",
	})
	require.NotNil(t, eff.MRP)
	assert.Equal(t, 999.0, *eff.MRP)
	assert.Equal(t, 599.0, *eff.OfferPrice)
	assert.Equal(t, "500g", eff.QuantityDescription)
	assert.Equal(t, StockLimited, eff.StockStatus)
	assert.Equal(t, 40, eff.DiscountPercent())

	assert.Nil(t, canonical.MRP, "input must not change")
	assert.Equal(t, "1kg", canonical.QuantityDescription)
}

func TestApplyOverridesOfferFallsBackToPrice(t *testing.T) {
	eff := ApplyOverrides(Product{Price: 120}, nil)
	require.NotNil(t, eff.OfferPrice)
	assert.Equal(t, 120.0, *eff.OfferPrice)
	assert.Nil(t, eff.MRP)
	assert.Equal(t, StockAvailable, eff.StockStatus)

	eff = ApplyOverrides(Product{Price: 120, OfferPrice: ptr(90)}, override.Set{FieldOfferPrice: ""})
	assert.Equal(t, 120.0, *eff.OfferPrice)
}

func TestApplyOverridesBadNumbersKeepCanonical(t *testing.T) {
	canonical := Product{Price: 100, MRP: ptr(150), OfferPrice: ptr(90)}

	eff := ApplyOverrides(canonical, override.Set{FieldMRP: "abc", FieldOfferPrice: "NaN"})
	assert.Equal(t, 150.0, *eff.MRP)
	assert.Equal(t, 90.0, *eff.OfferPrice)

	eff = ApplyOverrides(canonical, override.Set{FieldMRP: ""})
	assert.Nil(t, eff.MRP)
}

func TestApplyOverridesIgnoresUnknownStockStatus(t *testing.T) {
	eff := ApplyOverrides(Product{Price: 1, StockStatus: StockOut}, override.Set{FieldStockStatus: "gone"})
	assert.Equal(t, StockOut, eff.StockStatus)
}

func TestOverrideValues(t *testing.T) {
	assert.Equal(t, override.Set{
		FieldMRP:                 "",
		FieldOfferPrice:          "250",
		FieldQuantityDescription: "",
		FieldStockStatus:         "available",
	}, OverrideValues(ProductRequest{Name: "Tea", Price: 250}))

	assert.Equal(t, override.Set{
		FieldMRP:                 "999.5",
		FieldOfferPrice:          "599",
		FieldQuantityDescription: "1kg",
		FieldStockStatus:         "out_of_stock",
	}, OverrideValues(ProductRequest{
		Name:                "Cake",
		Price:               700,
		MRP:                 ptr(999.5),
		OfferPrice:          ptr(599),
		QuantityDescription: "1kg",
		StockStatus:         StockOut,
	}))
}
