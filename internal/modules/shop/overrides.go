package shop

import "github.com/georgemunganga/qrmenu-backend/internal/modules/override"

// ApplyOverrides returns the effective shop: each stored hours override
// replaces the canonical value. The input is not modified.
func ApplyOverrides(s Shop, o override.Set) Shop {
	if v, ok := o.String(FieldOpenTime); ok {
		s.OpenTime = v
	}
	if v, ok := o.String(FieldCloseTime); ok {
		s.CloseTime = v
	}
	return s
}

// OverrideValues are the hours written on every admin save, changed or not.
func OverrideValues(req UpdateShopRequest) override.Set {
	return override.Set{
		FieldOpenTime:  req.OpenTime,
		FieldCloseTime: req.CloseTime,
	}
}
