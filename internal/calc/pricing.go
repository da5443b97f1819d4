package calc

import (
	"errors"
	"math"

	"renthub/internal/models"
)

// ErrInvalidRate is returned when a listing has a non-positive daily rate.
// Callers must surface an explicit "price unavailable" state, never a zero total.
var ErrInvalidRate = errors.New("daily rate must be positive")

// ComputePricing derives a full price breakdown for a rental of the given
// duration. Pure and deterministic; every derived amount is rounded to the
// cent at the step it is computed, not only at display time.
func ComputePricing(rates models.RateSchedule, duration int, opts models.PricingOptions, fees models.FeeTable) (models.Breakdown, error) {
	if duration <= 0 {
		return models.Breakdown{}, nil
	}
	if rates.DailyRateCents <= 0 {
		return models.Breakdown{}, ErrInvalidRate
	}

	b := models.Breakdown{
		BaseCents:            baseAmount(rates, duration, fees),
		SecurityDepositCents: opts.SecurityDepositCents,
	}

	b.ServiceFeeCents = roundCents(b.BaseCents, fees.ServiceFeeRate)
	if opts.IncludeInsurance {
		b.InsuranceFeeCents = roundCents(b.BaseCents, fees.InsuranceRate)
	}
	if opts.DeliveryMethod == models.DeliveryDelivery {
		b.DeliveryFeeCents = fees.DeliveryFlatFeeCents
	}
	b.PointsDiscountCents = pointsDiscount(b.BaseCents, opts, fees)

	total := b.BaseCents + b.ServiceFeeCents + b.InsuranceFeeCents +
		b.DeliveryFeeCents + b.SecurityDepositCents - b.PointsDiscountCents
	if total < 0 {
		total = 0
	}
	b.TotalRenterPaysCents = total

	b.PlatformCommissionCents = roundCents(b.BaseCents, fees.PlatformCommissionRate)
	b.OwnerEarnsCents = b.BaseCents - b.PlatformCommissionCents

	return b, nil
}

// baseAmount blends whole discounted-period blocks with remainder days at the
// daily rate. Monthly blocks apply first, then weekly blocks from what is left.
func baseAmount(rates models.RateSchedule, duration int, fees models.FeeTable) int64 {
	remaining := duration
	var base int64

	if rates.MonthlyRateCents > 0 && fees.MonthlyThresholdDays > 0 && remaining >= fees.MonthlyThresholdDays {
		months := remaining / fees.MonthlyThresholdDays
		base += int64(months) * rates.MonthlyRateCents
		remaining -= months * fees.MonthlyThresholdDays
	}
	if rates.WeeklyRateCents > 0 && fees.WeeklyThresholdDays > 0 && remaining >= fees.WeeklyThresholdDays {
		weeks := remaining / fees.WeeklyThresholdDays
		base += int64(weeks) * rates.WeeklyRateCents
		remaining -= weeks * fees.WeeklyThresholdDays
	}
	base += int64(remaining) * rates.DailyRateCents

	return base
}

// pointsDiscount clamps the requested points to the renter's balance and to
// the configured fraction of the base amount. Over-asking is clamped, never
// an error.
func pointsDiscount(baseCents int64, opts models.PricingOptions, fees models.FeeTable) int64 {
	points := opts.PointsApplied
	if points <= 0 {
		return 0
	}
	if points > opts.PointsBalance {
		points = opts.PointsBalance
	}

	discount := points * fees.PointsToCents
	maxDiscount := roundCents(baseCents, fees.PointsCapFraction)
	if discount > maxDiscount {
		discount = maxDiscount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func roundCents(cents int64, rate float64) int64 {
	return int64(math.Round(float64(cents) * rate))
}
