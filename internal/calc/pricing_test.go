package calc

import (
	"testing"

	"renthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePricing(t *testing.T) {
	fees := models.DefaultFeeTable()

	t.Run("ZeroDuration", func(t *testing.T) {
		b, err := ComputePricing(models.RateSchedule{DailyRateCents: 5000}, 0, models.PricingOptions{}, fees)
		assert.NoError(t, err)
		assert.Equal(t, models.Breakdown{}, b)
		assert.Equal(t, int64(0), b.TotalRenterPaysCents)
	})

	t.Run("InvalidRate", func(t *testing.T) {
		_, err := ComputePricing(models.RateSchedule{DailyRateCents: 0}, 3, models.PricingOptions{}, fees)
		assert.ErrorIs(t, err, ErrInvalidRate)

		_, err = ComputePricing(models.RateSchedule{DailyRateCents: -100}, 3, models.PricingOptions{}, fees)
		assert.ErrorIs(t, err, ErrInvalidRate)
	})

	t.Run("WeeklyBlend", func(t *testing.T) {
		// dailyRate=50, weeklyRate=300, duration=10: 1 week block + 3 days daily.
		rates := models.RateSchedule{DailyRateCents: 5000, WeeklyRateCents: 30000}
		b, err := ComputePricing(rates, 10, models.PricingOptions{}, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(45000), b.BaseCents)
	})

	t.Run("FeeVector", func(t *testing.T) {
		// base=450.00, service 15% = 67.50, insurance 10% = 45.00, total 562.50.
		rates := models.RateSchedule{DailyRateCents: 5000, WeeklyRateCents: 30000}
		opts := models.PricingOptions{IncludeInsurance: true, DeliveryMethod: models.DeliveryPickup}
		b, err := ComputePricing(rates, 10, opts, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(45000), b.BaseCents)
		assert.Equal(t, int64(6750), b.ServiceFeeCents)
		assert.Equal(t, int64(4500), b.InsuranceFeeCents)
		assert.Equal(t, int64(0), b.DeliveryFeeCents)
		assert.Equal(t, int64(56250), b.TotalRenterPaysCents)
	})

	t.Run("OwnerEarns", func(t *testing.T) {
		rates := models.RateSchedule{DailyRateCents: 5000}
		b, err := ComputePricing(rates, 2, models.PricingOptions{}, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), b.BaseCents)
		assert.Equal(t, int64(2000), b.PlatformCommissionCents)
		assert.Equal(t, int64(8000), b.OwnerEarnsCents)
	})

	t.Run("DeliveryFlatFee", func(t *testing.T) {
		rates := models.RateSchedule{DailyRateCents: 5000}
		opts := models.PricingOptions{DeliveryMethod: models.DeliveryDelivery}
		b, err := ComputePricing(rates, 1, opts, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), b.DeliveryFeeCents)
	})

	t.Run("MonthlyBlend", func(t *testing.T) {
		rates := models.RateSchedule{
			DailyRateCents:   5000,
			WeeklyRateCents:  30000,
			MonthlyRateCents: 100000,
		}
		// 38 days = 1 month block (28) + 1 week block (7) + 3 daily.
		b, err := ComputePricing(rates, 38, models.PricingOptions{}, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(100000+30000+15000), b.BaseCents)
	})

	t.Run("PointsClampedToCapAndBalance", func(t *testing.T) {
		rates := models.RateSchedule{DailyRateCents: 10000}
		// base = 20000; cap = 50% = 10000.
		opts := models.PricingOptions{PointsApplied: 50000, PointsBalance: 50000}
		b, err := ComputePricing(rates, 2, opts, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), b.PointsDiscountCents)
		assert.GreaterOrEqual(t, b.TotalRenterPaysCents, int64(0))

		// Balance below the cap wins.
		opts = models.PricingOptions{PointsApplied: 50000, PointsBalance: 300}
		b, err = ComputePricing(rates, 2, opts, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(300), b.PointsDiscountCents)
	})

	t.Run("MonotonicInDuration", func(t *testing.T) {
		rates := models.RateSchedule{DailyRateCents: 5000, WeeklyRateCents: 30000}
		opts := models.PricingOptions{IncludeInsurance: true}
		var prev int64
		for d := 1; d <= 60; d++ {
			b, err := ComputePricing(rates, d, opts, fees)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, b.TotalRenterPaysCents, prev, "duration %d", d)
			prev = b.TotalRenterPaysCents
		}
	})

	t.Run("DepositPassesThrough", func(t *testing.T) {
		rates := models.RateSchedule{DailyRateCents: 5000}
		opts := models.PricingOptions{SecurityDepositCents: 15000}
		b, err := ComputePricing(rates, 1, opts, fees)
		require.NoError(t, err)
		assert.Equal(t, int64(15000), b.SecurityDepositCents)
		assert.Equal(t, b.BaseCents+b.ServiceFeeCents+15000, b.TotalRenterPaysCents)
	})
}
