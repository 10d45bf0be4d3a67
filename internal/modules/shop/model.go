package shop

import (
	"time"

	"github.com/google/uuid"
)

// Overridable shop fields.
const (
	FieldOpenTime  = "open_time"
	FieldCloseTime = "close_time"
)

// OverridableFields lists every shop field a device may override.
var OverridableFields = []string{FieldOpenTime, FieldCloseTime}

// Shop is a storefront owned by one user.
type Shop struct {
	ID                 uuid.UUID  `json:"id"`
	OwnerUserID        uuid.UUID  `json:"owner_user_id"`
	Slug               string     `json:"slug"`
	ShopName           string     `json:"shop_name"`
	Description        string     `json:"description"`
	Address            string     `json:"address"`
	LogoURL            string     `json:"logo_url"`
	WhatsappNumber     string     `json:"whatsapp_number"`
	OpenTime           string     `json:"open_time"`  // HH:MM, empty when unset
	CloseTime          string     `json:"close_time"` // HH:MM, empty when unset
	ProductLimit       int        `json:"product_limit"`
	ProductCount       int        `json:"current_products_count"`
	SubscriptionTier   string     `json:"subscription_tier"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	PlanValidity       string     `json:"plan_validity,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// HasHours reports whether both opening bounds are set.
func (s *Shop) HasHours() bool {
	return s.OpenTime != "" && s.CloseTime != ""
}

// UpdateShopRequest is the admin form for shop details.
type UpdateShopRequest struct {
	ShopName       string `json:"shop_name"`
	Description    string `json:"description"`
	Address        string `json:"address"`
	WhatsappNumber string `json:"whatsapp_number"`
	LogoURL        string `json:"logo_url"`
	OpenTime       string `json:"open_time"`
	CloseTime      string `json:"close_time"`
}
