package models

import "time"

// Breakdown is a priced summary for a selected range. All amounts are cents.
type Breakdown struct {
	BaseCents               int64 `json:"base_cents"`
	ServiceFeeCents         int64 `json:"service_fee_cents"`
	InsuranceFeeCents       int64 `json:"insurance_fee_cents"`
	DeliveryFeeCents        int64 `json:"delivery_fee_cents"`
	SecurityDepositCents    int64 `json:"security_deposit_cents"`
	PointsDiscountCents     int64 `json:"points_discount_cents"`
	TotalRenterPaysCents    int64 `json:"total_renter_pays_cents"`
	PlatformCommissionCents int64 `json:"platform_commission_cents"`
	OwnerEarnsCents         int64 `json:"owner_earns_cents"`
}

// PricingOptions is the options bag accompanying a quote request.
type PricingOptions struct {
	IncludeInsurance     bool   `json:"include_insurance"`
	DeliveryMethod       string `json:"delivery_method"` // pickup or delivery
	SecurityDepositCents int64  `json:"security_deposit_cents"`
	PointsApplied        int64  `json:"points_applied"`
	PointsBalance        int64  `json:"points_balance"`
}

// FeeTable centralizes every fee rate and threshold the calculator consumes.
// One injected table instead of literals at call sites.
type FeeTable struct {
	ServiceFeeRate         float64 `yaml:"service_fee_rate"`
	InsuranceRate          float64 `yaml:"insurance_rate"`
	PlatformCommissionRate float64 `yaml:"platform_commission_rate"`
	PointsToCents          int64   `yaml:"points_to_cents"`
	PointsCapFraction      float64 `yaml:"points_cap_fraction"`
	DeliveryFlatFeeCents   int64   `yaml:"delivery_flat_fee_cents"`
	WeeklyThresholdDays    int     `yaml:"weekly_threshold_days"`
	MonthlyThresholdDays   int     `yaml:"monthly_threshold_days"`
}

// DefaultFeeTable returns the canonical platform rates.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		ServiceFeeRate:         0.15,
		InsuranceRate:          0.10,
		PlatformCommissionRate: 0.20,
		PointsToCents:          1,
		PointsCapFraction:      0.5,
		DeliveryFlatFeeCents:   2000,
		WeeklyThresholdDays:    7,
		MonthlyThresholdDays:   28,
	}
}

// Quote is an advisory priced summary for a candidate range. The
// authoritative conflict check happens at booking creation, never here.
type Quote struct {
	ListingID             int64       `json:"listing_id"`
	ListingName           string      `json:"listing_name"`
	StartDate             time.Time   `json:"start_date"`
	EndDate               time.Time   `json:"end_date"`
	Duration              int         `json:"duration_days"`
	Pricing               Breakdown   `json:"pricing"`
	ConflictDates         []time.Time `json:"conflict_dates,omitempty"`
	AvailabilityConfirmed bool        `json:"availability_confirmed"`
	CreatedAt             time.Time   `json:"created_at"`
}
