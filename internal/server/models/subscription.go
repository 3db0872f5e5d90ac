package models

import "time"

// Subscription plan tiers.
const (
	TierFree    = "free"
	TierPro     = "pro"
	TierPremium = "premium"
)

// Subscription statuses.
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
)

// SubscriptionPlan describes a purchasable tier.
type SubscriptionPlan struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Tier         string    `json:"tier"`
	Price        string    `json:"price"`
	IntervalDays int       `json:"interval_days"`
	Features     []string  `json:"features"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Subscription holds one user's current plan. One row per user.
type Subscription struct {
	ID        int64       `json:"id"`
	UserID    PrincipalID `json:"user_id"`
	PlanID    int64       `json:"plan_id"`
	Status    string      `json:"status"`
	StartDate time.Time   `json:"start_date"`
	EndDate   *time.Time  `json:"end_date"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Plan is populated on reads that join the plan row.
	Plan *SubscriptionPlan `json:"plan,omitempty"`
}
