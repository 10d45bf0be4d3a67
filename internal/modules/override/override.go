// Package override stores device-local field values that supersede the
// canonical shop and product records when they are displayed or ordered.
//
// Overrides are read-your-writes for a single device only. They are never
// copied into the canonical store; callers merge them on top of every fresh
// fetch.
package override

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Entity types that carry overridable fields.
const (
	EntityProduct = "product"
	EntityShop    = "shop"
)

// Key builds the storage key for one overridden field, e.g. product_<id>_mrp.
func Key(entityType, entityID, field string) string {
	return fmt.Sprintf("%s_%s_%s", entityType, entityID, field)
}

// Set holds the raw override values found for one entity, keyed by field name.
// A field that is present with an empty value was explicitly saved empty.
type Set map[string]string

// String returns the raw override for field and whether one exists.
func (s Set) String(field string) (string, bool) {
	v, ok := s[field]
	return v, ok
}

// NumberOr returns the numeric override for field, or fallback when there is
// none or it does not parse.
func (s Set) NumberOr(field string, fallback float64) float64 {
	raw, ok := s[field]
	if !ok {
		return fallback
	}
	return ParseNumberOr(raw, fallback)
}

// ParseNumber parses a stored numeric override. NaN and infinities are
// rejected so they never reach a price.
func ParseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseNumberOr is ParseNumber with an explicit fallback.
func ParseNumberOr(raw string, fallback float64) float64 {
	if v, ok := ParseNumber(raw); ok {
		return v
	}
	return fallback
}

// FormatNumber renders a number the way it is stored: shortest form, no
// trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
