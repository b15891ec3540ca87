// Package billing holds the pure subscription domain logic: the plan
// catalog, the billing period calculator, and the period annotator. It does
// no I/O; the services in internal/core compose it with the store.
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cardstamp/loyalty/internal/model"
)

// ErrUnknownPlan is returned for plan values outside the catalog. Unknown
// plans always fail hard, never default to trial features.
var ErrUnknownPlan = errors.New("unknown plan")

// Features is the feature tier granted by a plan. Limits of -1 mean
// unlimited.
type Features struct {
	MaxLoyaltySubscribers int  `json:"max_loyalty_subscribers"`
	MaxLocations          int  `json:"max_locations"`
	AdvancedAnalytics     bool `json:"advanced_analytics"`
	PrioritySupport       bool `json:"priority_support"`
	CustomBranding        bool `json:"custom_branding"`
	APIAccess             bool `json:"api_access"`
}

// Unlimited marks a feature limit with no cap.
const Unlimited = -1

// PlanSpec is one catalog entry.
type PlanSpec struct {
	ID       string          `json:"id"`
	Price    decimal.Decimal `json:"price"`
	Duration string          `json:"duration"`
	Features Features        `json:"features"`
}

var trialFeatures = Features{
	MaxLoyaltySubscribers: 100,
	MaxLocations:          1,
}

// catalog is the static plan table. Order matters for Specs.
var catalog = []PlanSpec{
	{
		ID:       model.PlanTrial,
		Price:    decimal.Zero,
		Duration: "30 days",
		Features: trialFeatures,
	},
	{
		ID:       model.PlanMonthly,
		Price:    decimal.New(299, -2),
		Duration: "1 month",
		Features: Features{
			MaxLoyaltySubscribers: Unlimited,
			MaxLocations:          Unlimited,
			AdvancedAnalytics:     true,
			PrioritySupport:       true,
		},
	},
	{
		ID:       model.PlanSemiannual,
		Price:    decimal.New(999, -2),
		Duration: "6 months",
		Features: Features{
			MaxLoyaltySubscribers: Unlimited,
			MaxLocations:          Unlimited,
			AdvancedAnalytics:     true,
			PrioritySupport:       true,
			CustomBranding:        true,
			APIAccess:             true,
		},
	},
	{
		ID:       model.PlanAnnual,
		Price:    decimal.New(1999, -2),
		Duration: "1 year",
		Features: Features{
			MaxLoyaltySubscribers: Unlimited,
			MaxLocations:          Unlimited,
			AdvancedAnalytics:     true,
			PrioritySupport:       true,
			CustomBranding:        true,
			APIAccess:             true,
		},
	},
}

// Spec returns the catalog entry for a plan.
func Spec(plan string) (PlanSpec, error) {
	for _, s := range catalog {
		if s.ID == plan {
			return s, nil
		}
	}
	return PlanSpec{}, fmt.Errorf("plan %q: %w", plan, ErrUnknownPlan)
}

// Specs returns the full catalog in display order.
func Specs() []PlanSpec {
	out := make([]PlanSpec, len(catalog))
	copy(out, catalog)
	return out
}

// Price returns the one-time recognized price for a plan.
func Price(plan string) (decimal.Decimal, error) {
	s, err := Spec(plan)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return s.Price, nil
}

// FeaturesFor returns the feature tier for a plan.
func FeaturesFor(plan string) (Features, error) {
	s, err := Spec(plan)
	if err != nil {
		return Features{}, err
	}
	return s.Features, nil
}

// TrialFeatures is the tier granted to subscribers with no stored
// subscription (implicit trial) and to fail-open entitlement results.
func TrialFeatures() Features {
	return trialFeatures
}

// ValidPlan reports whether the plan exists in the catalog.
func ValidPlan(plan string) bool {
	_, err := Spec(plan)
	return err == nil
}
