package request

import "time"

// BillingEvent is one inbound billing-provider event. Signature
// verification happens in an upstream layer; by the time an event reaches
// this service its payload is trusted.
type BillingEvent struct {
	SubscriberID            string     `json:"subscriber_id" validate:"required"`
	Plan                    string     `json:"plan" validate:"required"`
	Status                  string     `json:"status" validate:"omitempty,oneof=active past_due cancelled expired"`
	ExternalSubscriptionRef *string    `json:"external_subscription_ref"`
	ExternalCustomerRef     *string    `json:"external_customer_ref"`
	PeriodStart             *time.Time `json:"period_start"`
	PeriodEnd               *time.Time `json:"period_end"`
}

// StatusChange is the body of cancel/reactivate requests. The reason feeds
// audit logs only and never affects state transitions.
type StatusChange struct {
	Reason string `json:"reason"`
}
