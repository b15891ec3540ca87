// Command dev seeds a local database with subscriptions across every plan
// and lifecycle status so the dashboard has something to render. Reruns are
// safe: existing rows are left alone.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardstamp/loyalty/internal/billing"
	"github.com/cardstamp/loyalty/internal/model"
)

type seedRow struct {
	subscriberID string
	plan         string
	status       string
	startOffset  time.Duration
}

var seedRows = []seedRow{
	{"dev-sub-trial-1", model.PlanTrial, model.StatusActive, -5 * 24 * time.Hour},
	{"dev-sub-trial-2", model.PlanTrial, model.StatusExpired, -60 * 24 * time.Hour},
	{"dev-sub-monthly-1", model.PlanMonthly, model.StatusActive, -10 * 24 * time.Hour},
	{"dev-sub-monthly-2", model.PlanMonthly, model.StatusPastDue, -35 * 24 * time.Hour},
	{"dev-sub-semiannual-1", model.PlanSemiannual, model.StatusActive, -30 * 24 * time.Hour},
	{"dev-sub-semiannual-2", model.PlanSemiannual, model.StatusCancelled, -90 * 24 * time.Hour},
	{"dev-sub-annual-1", model.PlanAnnual, model.StatusActive, -100 * 24 * time.Hour},
}

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("Seeding subscriptions...")

	now := time.Now().UTC()
	for _, row := range seedRows {
		start := now.Add(row.startOffset)
		end, err := billing.PeriodEnd(row.plan, start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed %s: %v\n", row.subscriberID, err)
			os.Exit(1)
		}
		text, accurate := billing.Annotate(row.plan, start, end)

		tag, err := pool.Exec(ctx, `
			INSERT INTO subscriptions
				(subscriber_id, plan, status, period_start, period_end, period_text, period_accurate)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (subscriber_id) DO NOTHING`,
			row.subscriberID, row.plan, row.status, start, end, text, accurate,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed %s: %v\n", row.subscriberID, err)
			os.Exit(1)
		}
		if tag.RowsAffected() == 0 {
			fmt.Printf("  %s already present, skipped\n", row.subscriberID)
			continue
		}
		fmt.Printf("  %s (%s, %s)\n", row.subscriberID, row.plan, row.status)
	}

	fmt.Println("Done.")
}
