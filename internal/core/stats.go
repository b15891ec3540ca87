package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cardstamp/loyalty/internal/billing"
	"github.com/cardstamp/loyalty/internal/model"
)

// SubscriptionStats holds the aggregate counts and revenue the dashboard
// renders. Revenue is a one-time recognized amount per subscription ever
// billed (catalog price, counted once regardless of elapsed cycles), not an
// MRR time-integral.
type SubscriptionStats struct {
	Total     int             `json:"total"`
	Active    int             `json:"active"`
	Trial     int             `json:"trial"`
	Paid      int             `json:"paid"`
	Revenue   decimal.Decimal `json:"revenue"`
	ChurnRate float64         `json:"churn_rate"`

	ByPlan   []PlanCount   `json:"by_plan"`
	ByStatus []StatusCount `json:"by_status"`
}

// PlanCount holds a subscription count grouped by plan.
type PlanCount struct {
	Plan  string `json:"plan"`
	Count int    `json:"count"`
}

// StatusCount holds a subscription count grouped by status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatsService computes recognized revenue and churn across all stored
// subscriptions.
type StatsService struct {
	db DB
}

func NewStatsService(db DB) *StatsService {
	return &StatsService{db: db}
}

// Stats aggregates one (plan, status) count query; prices stay in the
// catalog so the money math lives in one place.
func (s *StatsService) Stats(ctx context.Context) (*SubscriptionStats, error) {
	rows, err := s.db.Query(ctx,
		`SELECT plan, status, count(*) FROM subscriptions GROUP BY plan, status`)
	if err != nil {
		return nil, fmt.Errorf("subscription stats: %w", err)
	}
	defer rows.Close()

	stats := &SubscriptionStats{Revenue: decimal.Zero}
	planCounts := map[string]int{}
	statusCounts := map[string]int{}
	cancelled := 0

	for rows.Next() {
		var plan, status string
		var count int
		if err := rows.Scan(&plan, &status, &count); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}

		stats.Total += count
		planCounts[plan] += count
		statusCounts[status] += count

		if status == model.StatusActive {
			stats.Active += count
		}
		if status == model.StatusCancelled {
			cancelled += count
		}
		if plan == model.PlanTrial {
			stats.Trial += count
			continue
		}

		if status == model.StatusActive {
			stats.Paid += count
		}
		// Recognize revenue once per subscription ever billed: a cancelled
		// or expired paid subscription still paid for its period.
		switch status {
		case model.StatusActive, model.StatusExpired, model.StatusCancelled:
			price, err := billing.Price(plan)
			if err != nil {
				return nil, fmt.Errorf("stats revenue: %w", err)
			}
			stats.Revenue = stats.Revenue.Add(price.Mul(decimal.NewFromInt(int64(count))))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats rows: %w", err)
	}

	if stats.Total > 0 {
		stats.ChurnRate = float64(cancelled) / float64(stats.Total) * 100
	}

	for _, plan := range []string{model.PlanTrial, model.PlanMonthly, model.PlanSemiannual, model.PlanAnnual} {
		if c, ok := planCounts[plan]; ok {
			stats.ByPlan = append(stats.ByPlan, PlanCount{Plan: plan, Count: c})
		}
	}
	for _, status := range []string{model.StatusActive, model.StatusPastDue, model.StatusCancelled, model.StatusExpired} {
		if c, ok := statusCounts[status]; ok {
			stats.ByStatus = append(stats.ByStatus, StatusCount{Status: status, Count: c})
		}
	}

	return stats, nil
}
