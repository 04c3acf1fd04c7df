package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierByID_Normalization(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"two-days-weekly", "Basic"},
		{"two_days_weekly", "Basic"},
		{"Two-Days-Weekly", "Basic"},
		{"THREE_DAYS_WEEKLY", "Standard"},
		{"unlimited", "Premium"},
		{"Coaching", "Coaching"},
	}

	for _, tt := range tests {
		tier, ok := TierByID(tt.id)
		require.True(t, ok, "expected %q to resolve", tt.id)
		assert.Equal(t, tt.want, tier.Name)
	}

	_, ok := TierByID("gold-plated")
	assert.False(t, ok)
	_, ok = TierByID("")
	assert.False(t, ok)
}

func TestDaysPerWeek(t *testing.T) {
	assert.Equal(t, 2, DaysPerWeek("two-days-weekly"))
	assert.Equal(t, 3, DaysPerWeek("three-days-weekly"))
	assert.Equal(t, 7, DaysPerWeek("unlimited"))
	assert.Equal(t, 2, DaysPerWeek("coaching"))
	// Unknown ids never panic, they report zero allowance
	assert.Equal(t, 0, DaysPerWeek("gold-plated"))
}

func TestActiveTiers_DisplayOrder(t *testing.T) {
	tiers := ActiveTiers()
	require.Len(t, tiers, 4)

	for i := 1; i < len(tiers); i++ {
		assert.Less(t, tiers[i-1].DisplayOrder, tiers[i].DisplayOrder)
	}
	assert.Equal(t, "two-days-weekly", tiers[0].ID)
	assert.Equal(t, "coaching", tiers[3].ID)
}

func TestSessionPricing(t *testing.T) {
	pricing := SessionPricing()
	require.Len(t, pricing, 2)
	assert.Equal(t, "private_coaching", pricing[0].ID)
	assert.Equal(t, 20.0, pricing[0].Price)
	assert.Equal(t, "none_coaching_single", pricing[1].ID)
	assert.Equal(t, 10.0, pricing[1].Price)

	price, ok := SessionPriceByID("private_coaching")
	require.True(t, ok)
	assert.Equal(t, 20.0, price.Price)

	_, ok = SessionPriceByID("group-discount")
	assert.False(t, ok)
}

func TestExpiration(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"two-days-weekly", "three-days-weekly", "unlimited", "coaching"} {
		exp, err := Expiration(id, start)
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 0, 30), exp, "tier %s", id)
	}

	_, err := Expiration("gold-plated", start)
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestStatus(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)

	assert.Equal(t, StatusActive, Status(&future))
	assert.Equal(t, StatusExpired, Status(&past))
	assert.Equal(t, StatusInactive, Status(nil))
}

func TestDaysRemaining(t *testing.T) {
	// A bit over two days away rounds up to 3
	future := time.Now().Add(49 * time.Hour)
	assert.Equal(t, 3, DaysRemaining(&future))

	past := time.Now().Add(-time.Hour)
	assert.Equal(t, 0, DaysRemaining(&past))
	assert.Equal(t, 0, DaysRemaining(nil))
}
