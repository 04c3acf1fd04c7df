package catalog

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

// ErrUnknownTier is returned when a membership tier id does not resolve.
var ErrUnknownTier = errors.New("unknown membership tier")

// Membership statuses derived from an expiration date
const (
	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusInactive = "inactive"
)

// Tier is a membership plan definition. Static reference data: tiers are not
// persisted per-member, profiles hold the tier id.
type Tier struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	DaysPerWeek      int      `json:"days_per_week"`
	DurationDays     int      `json:"duration_days"`
	Description      string   `json:"description"`
	IncludesCoaching bool     `json:"includes_coaching"`
	Features         []string `json:"features"`
	IsActive         bool     `json:"is_active"`
	DisplayOrder     int      `json:"display_order"`
}

// SessionPrice is a single-session price tier (no membership required).
type SessionPrice struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	DisplayOrder int      `json:"display_order"`
}

var tiers = map[string]Tier{
	"two_days_weekly": {
		ID:           "two-days-weekly",
		Name:         "Basic",
		Price:        20,
		DaysPerWeek:  2,
		DurationDays: 30,
		Description:  "Access to club facilities 2 days per week (non-coaching)",
		Features: []string{
			"Access to gym facilities",
			"Choose your days when visiting",
			"No coaching included",
		},
		IsActive:     true,
		DisplayOrder: 1,
	},
	"three_days_weekly": {
		ID:           "three-days-weekly",
		Name:         "Standard",
		Price:        40,
		DaysPerWeek:  3,
		DurationDays: 30,
		Description:  "Access to club facilities 3 days per week (non-coaching)",
		Features: []string{
			"Access to gym facilities",
			"Choose your days when visiting",
			"No coaching included",
			"Rackets and balls included",
		},
		IsActive:     true,
		DisplayOrder: 2,
	},
	"unlimited": {
		ID:               "unlimited",
		Name:             "Premium",
		Price:            60,
		DaysPerWeek:      7,
		DurationDays:     30,
		Description:      "Unlimited access to club facilities (non-coaching)",
		IncludesCoaching: true,
		Features: []string{
			"Unlimited access to gym facilities",
			"Coaching included",
			"Progress tracking",
			"Rackets and balls included",
		},
		IsActive:     true,
		DisplayOrder: 3,
	},
	"coaching": {
		ID:               "coaching",
		Name:             "Coaching",
		Price:            40,
		DaysPerWeek:      2,
		DurationDays:     30,
		Description:      "Access to club facilities 2 days per week with coaching",
		IncludesCoaching: true,
		Features: []string{
			"Access to gym facilities",
			"2 days per week with coaching",
			"Progress tracking",
			"Rackets and balls included",
		},
		IsActive:     true,
		DisplayOrder: 4,
	},
}

var sessionPrices = map[string]SessionPrice{
	"private_coaching": {
		ID:          "private_coaching",
		Name:        "Private Coaching Session",
		Price:       20,
		Description: "One-on-one coaching session",
		Features: []string{
			"Personalized training plan",
			"Progress tracking",
			"Flexible scheduling with coaches",
			"Rackets and balls included",
		},
		DisplayOrder: 1,
	},
	"none_coaching_single": {
		ID:          "none_coaching_single",
		Name:        "Single Session (Non-Coaching)",
		Price:       10,
		Description: "Single access to club facilities without coaching",
		Features: []string{
			"Access to gym facilities",
			"No coaching included",
			"Valid for one day",
			"2 Rackets and 2 Balls included",
		},
		DisplayOrder: 2,
	},
}

// normalizeID case-folds and maps hyphens to underscores, so "Two-Days-Weekly"
// and "two_days_weekly" resolve to the same tier.
func normalizeID(id string) string {
	return strings.ReplaceAll(strings.ToLower(id), "-", "_")
}

// TierByID returns the tier for a (possibly denormalized) id.
func TierByID(id string) (Tier, bool) {
	if id == "" {
		return Tier{}, false
	}
	t, ok := tiers[normalizeID(id)]
	return t, ok
}

// DaysPerWeek returns the weekly visit allowance for a tier id, 0 if unknown.
func DaysPerWeek(tierID string) int {
	t, ok := TierByID(tierID)
	if !ok {
		return 0
	}
	return t.DaysPerWeek
}

// ActiveTiers returns active tiers ordered by display order.
func ActiveTiers() []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// SessionPricing returns the single-session price tiers ordered by display order.
func SessionPricing() []SessionPrice {
	out := make([]SessionPrice, 0, len(sessionPrices))
	for _, p := range sessionPrices {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// SessionPriceByID returns a single-session price tier by id.
func SessionPriceByID(id string) (SessionPrice, bool) {
	p, ok := sessionPrices[normalizeID(id)]
	return p, ok
}

// Status derives the membership status from an expiration date: active while
// strictly in the future, expired once passed, inactive when never set.
func Status(expiration *time.Time) string {
	if expiration == nil {
		return StatusInactive
	}
	if expiration.After(time.Now()) {
		return StatusActive
	}
	return StatusExpired
}

// DaysRemaining returns the whole days (ceiling) until expiration, 0 when
// absent or already past.
func DaysRemaining(expiration *time.Time) int {
	if expiration == nil {
		return 0
	}
	now := time.Now()
	if !expiration.After(now) {
		return 0
	}
	return int(math.Ceil(expiration.Sub(now).Hours() / 24))
}

// Expiration computes startDate + the tier's duration.
func Expiration(tierID string, startDate time.Time) (time.Time, error) {
	t, ok := TierByID(tierID)
	if !ok {
		return time.Time{}, ErrUnknownTier
	}
	return startDate.AddDate(0, 0, t.DurationDays), nil
}
