package models

import "time"

// RateSchedule holds the per-period rates for a listing, in cents.
// Weekly and monthly rates are optional; zero means the listing has none.
type RateSchedule struct {
	DailyRateCents   int64 `yaml:"daily_rate_cents" json:"daily_rate_cents"`
	WeeklyRateCents  int64 `yaml:"weekly_rate_cents,omitempty" json:"weekly_rate_cents,omitempty"`
	MonthlyRateCents int64 `yaml:"monthly_rate_cents,omitempty" json:"monthly_rate_cents,omitempty"`
}

type Listing struct {
	ID                   int64        `yaml:"id" json:"id"`
	OwnerID              int64        `yaml:"owner_id" json:"owner_id"`
	Name                 string       `yaml:"name" json:"name"`
	Description          string       `yaml:"description" json:"description"`
	Rates                RateSchedule `yaml:"rates" json:"rates"`
	SecurityDepositCents int64        `yaml:"security_deposit_cents" json:"security_deposit_cents"`
	SortOrder            int64        `yaml:"sort_order" json:"sort_order"`
	IsActive             bool         `yaml:"is_active" json:"is_active"`
	CreatedAt            time.Time    `yaml:"created_at" json:"created_at"`
	UpdatedAt            time.Time    `yaml:"updated_at" json:"updated_at"`
}
