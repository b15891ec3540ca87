package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cardstamp/loyalty/internal/billing"
	"github.com/cardstamp/loyalty/internal/model"
)

// ReconcilerService applies inbound billing-provider events to the store.
// The provider delivers at least once; re-applying an identical event
// rewrites identical values, so duplicates and retries are harmless.
type ReconcilerService struct {
	subs   *SubscriptionService
	logger zerolog.Logger
}

func NewReconcilerService(subs *SubscriptionService, logger zerolog.Logger) *ReconcilerService {
	return &ReconcilerService{subs: subs, logger: logger}
}

// ApplyParams is one provider event. PeriodStart and PeriodEnd are optional
// overrides; the external refs are optional correlation data.
type ApplyParams struct {
	SubscriberID            string
	Plan                    string
	Status                  string
	ExternalSubscriptionRef *string
	ExternalCustomerRef     *string
	PeriodStart             *time.Time
	PeriodEnd               *time.Time
}

// Apply reconciles one event into the store. Omitted fields are passed
// through as nil so the store's merge keeps whatever a prior delivery
// wrote; only a newly inserted row gets a period computed from the plan.
// Unknown plans fail the whole event.
func (s *ReconcilerService) Apply(ctx context.Context, p ApplyParams) (*model.Subscription, error) {
	if !billing.ValidPlan(p.Plan) {
		return nil, fmt.Errorf("apply event for %s: plan %q: %w", p.SubscriberID, p.Plan, billing.ErrUnknownPlan)
	}

	status := p.Status
	if status == "" {
		status = model.StatusActive
	}

	sub, err := s.subs.Upsert(ctx, p.SubscriberID, UpsertFields{
		Plan:                    &p.Plan,
		Status:                  &status,
		ExternalSubscriptionRef: p.ExternalSubscriptionRef,
		ExternalCustomerRef:     p.ExternalCustomerRef,
		PeriodStart:             p.PeriodStart,
		PeriodEnd:               p.PeriodEnd,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("subscriber_id", sub.SubscriberID).
		Str("plan", sub.Plan).
		Str("status", sub.Status).
		Bool("period_accurate", sub.PeriodAccurate).
		Msg("billing event applied")
	return sub, nil
}

// Cancel marks the subscription as non-renewing. The billing period is left
// untouched: access runs through the already-paid period end. Cancelling a
// subscriber with no stored row is a no-op, not an error, and returns nil.
// The reason is audit logging only.
func (s *ReconcilerService) Cancel(ctx context.Context, subscriberID, reason string) (*model.Subscription, error) {
	return s.setStatus(ctx, subscriberID, model.StatusCancelled, reason, "subscription cancelled")
}

// Reactivate restores renewal on a cancelled subscription, leaving the
// billing period untouched. No-op for unknown subscribers.
func (s *ReconcilerService) Reactivate(ctx context.Context, subscriberID, reason string) (*model.Subscription, error) {
	return s.setStatus(ctx, subscriberID, model.StatusActive, reason, "subscription reactivated")
}

// setStatus is the restricted form of apply: it funnels through the same
// upsert primitive with only the status field set, so it can never touch
// the stored billing dates.
func (s *ReconcilerService) setStatus(ctx context.Context, subscriberID, status, reason, msg string) (*model.Subscription, error) {
	sub, err := s.subs.Upsert(ctx, subscriberID, UpsertFields{Status: &status})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Info().
				Str("subscriber_id", subscriberID).
				Str("status", status).
				Msg("status change skipped, no stored subscription")
			return nil, nil
		}
		return nil, err
	}

	s.logger.Info().
		Str("subscriber_id", subscriberID).
		Str("status", status).
		Str("reason", reason).
		Msg(msg)
	return sub, nil
}
