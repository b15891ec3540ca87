package core

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/cardstamp/loyalty/internal/billing"
	"github.com/cardstamp/loyalty/internal/model"
)

// Entitlement is the resolved access outcome for a subscriber at a point in
// time. Subscription is nil for subscribers with no stored row (implicit
// trial).
type Entitlement struct {
	HasAccess     bool                `json:"has_access"`
	Subscription  *model.Subscription `json:"subscription"`
	Features      billing.Features    `json:"features"`
	DaysRemaining int                 `json:"days_remaining"`
}

// EntitlementService answers "does this subscriber currently have access,
// and to what tier". It fails OPEN: any internal failure (store
// unreachable, malformed row) yields trial access rather than a denial.
// Availability over strictness is deliberate here; callers needing strict
// denial must apply their own secondary check.
type EntitlementService struct {
	subs   *SubscriptionService
	logger zerolog.Logger
}

func NewEntitlementService(subs *SubscriptionService, logger zerolog.Logger) *EntitlementService {
	return &EntitlementService{subs: subs, logger: logger}
}

// Resolve computes the subscriber's current entitlement.
func (s *EntitlementService) Resolve(ctx context.Context, subscriberID string) *Entitlement {
	return s.ResolveAt(ctx, subscriberID, time.Now().UTC())
}

// ResolveAt is Resolve against a fixed clock, useful for tests.
func (s *EntitlementService) ResolveAt(ctx context.Context, subscriberID string, now time.Time) *Entitlement {
	sub, err := s.subs.GetBySubscriber(ctx, subscriberID)
	if errors.Is(err, ErrNotFound) {
		// Brand-new subscriber: frictionless implicit trial, no row is
		// persisted until a real billing event arrives.
		return implicitTrial(nil)
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("subscriber_id", subscriberID).
			Msg("entitlement lookup failed, failing open with trial access")
		return implicitTrial(nil)
	}

	features, err := billing.FeaturesFor(sub.Plan)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("subscriber_id", subscriberID).
			Str("plan", sub.Plan).
			Msg("stored plan not in catalog, failing open with trial access")
		return implicitTrial(sub)
	}

	var hasAccess bool
	switch sub.Status {
	case model.StatusExpired:
		hasAccess = false
	case model.StatusActive, model.StatusPastDue, model.StatusCancelled:
		// Cancelled and delinquent subscribers keep access through the
		// period they already paid for.
		hasAccess = sub.InPeriodAt(now)
	default:
		s.logger.Warn().
			Str("subscriber_id", subscriberID).
			Str("status", sub.Status).
			Msg("stored status unrecognized, failing open with trial access")
		return implicitTrial(sub)
	}

	return &Entitlement{
		HasAccess:     hasAccess,
		Subscription:  sub,
		Features:      features,
		DaysRemaining: daysRemaining(sub.PeriodEnd, now),
	}
}

func implicitTrial(sub *model.Subscription) *Entitlement {
	return &Entitlement{
		HasAccess:     true,
		Subscription:  sub,
		Features:      billing.TrialFeatures(),
		DaysRemaining: 30,
	}
}

// daysRemaining rounds partial days up, floored at zero.
func daysRemaining(periodEnd, now time.Time) int {
	remaining := periodEnd.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
