package subscription

import (
	"math"
	"strings"
	"time"
)

// Tier names as stored on the shop.
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPro     = "pro"
	TierPremium = "premium"
)

// Currency all plans are priced in.
const Currency = "INR"

// Plan is a purchasable product allowance.
type Plan struct {
	Name         string  `json:"name"`
	Tier         string  `json:"tier"`
	Price        float64 `json:"price"`
	ProductLimit int     `json:"products"`
	ValidityDays int     `json:"validity_days"` // 0 = never expires
	Validity     string  `json:"validity"`
}

// Plans is the fixed plan catalogue, cheapest first.
var Plans = []Plan{
	{Name: "Free", Tier: TierFree, Price: 0, ProductLimit: 1, Validity: "Forever"},
	{Name: "Basic", Tier: TierBasic, Price: 100, ProductLimit: 25, ValidityDays: 45, Validity: "45 days"},
	{Name: "Pro", Tier: TierPro, Price: 200, ProductLimit: 75, ValidityDays: 60, Validity: "60 days"},
	{Name: "Premium", Tier: TierPremium, Price: 500, ProductLimit: 200, ValidityDays: 90, Validity: "90 days"},
}

// Default is the plan every new shop starts on.
func Default() Plan { return Plans[0] }

// Find looks a plan up by tier, case-insensitively.
func Find(tier string) (Plan, bool) {
	tier = strings.ToLower(strings.TrimSpace(tier))
	for _, p := range Plans {
		if p.Tier == tier {
			return p, true
		}
	}
	return Plan{}, false
}

// ValidityLabel returns the validity shown next to a shop's current tier.
func ValidityLabel(tier string) string {
	if p, ok := Find(tier); ok {
		return p.Validity
	}
	return "N/A"
}

// AmountMinor is the plan price in the smallest currency unit (paise).
func (p Plan) AmountMinor() int64 {
	return int64(math.Round(p.Price * 100))
}

// NextExpiry returns the expiry after buying p. Time already paid for is kept:
// the validity is added to the later of now and the current expiry. A plan
// without validity never expires and yields nil.
func NextExpiry(current *time.Time, now time.Time, p Plan) *time.Time {
	if p.ValidityDays == 0 {
		return nil
	}
	start := now
	if current != nil && current.After(now) {
		start = *current
	}
	next := start.AddDate(0, 0, p.ValidityDays)
	return &next
}

// Status summarises a subscription expiry for the admin view.
type Status struct {
	Expired         bool `json:"is_expired"`
	DaysUntilExpiry int  `json:"days_until_expiry"`
	ShowWarning     bool `json:"show_expiry_warning"`
}

// StatusAt evaluates expiry at now. A missing expiry never expires.
func StatusAt(expiry *time.Time, now time.Time) Status {
	if expiry == nil {
		return Status{}
	}
	days := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	return Status{
		Expired:         expiry.Before(now),
		DaysUntilExpiry: days,
		ShowWarning:     days > 0 && days <= 3,
	}
}
