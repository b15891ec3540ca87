package model

import "time"

// Plan identifiers. The catalog entry for each plan lives in internal/billing.
const (
	PlanTrial      = "trial"
	PlanMonthly    = "monthly"
	PlanSemiannual = "semiannual"
	PlanAnnual     = "annual"
)

// Subscription is the single stored row per subscriber. The external refs
// correlate to the billing provider and are never required for period or
// entitlement logic. PeriodText and PeriodAccurate are derived from the
// period bounds on every write.
type Subscription struct {
	SubscriberID            string    `json:"subscriber_id" db:"subscriber_id"`
	Plan                    string    `json:"plan" db:"plan"`
	Status                  string    `json:"status" db:"status"`
	ExternalSubscriptionRef *string   `json:"external_subscription_ref,omitempty" db:"external_subscription_ref"`
	ExternalCustomerRef     *string   `json:"external_customer_ref,omitempty" db:"external_customer_ref"`
	PeriodStart             time.Time `json:"period_start" db:"period_start"`
	PeriodEnd               time.Time `json:"period_end" db:"period_end"`
	PeriodText              string    `json:"period_text" db:"period_text"`
	PeriodAccurate          bool      `json:"period_accurate" db:"period_accurate"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

func (s *Subscription) IsExpired() bool {
	return s.Status == StatusExpired
}

// InPeriodAt reports whether t falls inside the paid billing period.
// Cancellation revokes renewal, not the remainder of the paid period, so
// callers must combine this with the status check.
func (s *Subscription) InPeriodAt(t time.Time) bool {
	return t.Before(s.PeriodEnd)
}
