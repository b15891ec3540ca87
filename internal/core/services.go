package core

import (
	"github.com/rs/zerolog"
)

type Services struct {
	Subscription *SubscriptionService
	Reconciler   *ReconcilerService
	Entitlement  *EntitlementService
	Stats        *StatsService
}

func NewServices(db DB, logger zerolog.Logger) *Services {
	subs := NewSubscriptionService(db)
	return &Services{
		Subscription: subs,
		Reconciler:   NewReconcilerService(subs, logger),
		Entitlement:  NewEntitlementService(subs, logger),
		Stats:        NewStatsService(db),
	}
}
