package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cardstamp/loyalty/internal/api/request"
	"github.com/cardstamp/loyalty/internal/billing"
	"github.com/cardstamp/loyalty/internal/model"
)

const subscriptionColumns = `subscriber_id, plan, status, external_subscription_ref,
	external_customer_ref, period_start, period_end, period_text, period_accurate,
	created_at, updated_at`

// SubscriptionService is the durable store: one row per subscriber, written
// only through Upsert. All webhook and cancel/reactivate traffic funnels
// through that single primitive.
type SubscriptionService struct {
	db DB
}

func NewSubscriptionService(db DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// UpsertFields carries the fields an inbound event supplies. Nil fields are
// never written: an existing row keeps its prior values (merge, not
// overwrite), so a status-only event cannot corrupt the stored billing
// period.
type UpsertFields struct {
	Plan                    *string
	Status                  *string
	ExternalSubscriptionRef *string
	ExternalCustomerRef     *string
	PeriodStart             *time.Time
	PeriodEnd               *time.Time
}

// Upsert merges fields into the subscriber's row, inserting it with
// defaults (status active, period starting now and ending per the plan's
// nominal duration) when absent. The period annotation is recomputed inside
// the same transaction, so period_text and period_accurate are never
// visible stale relative to the bounds. The primary-key conflict clause is
// the serialization point: concurrent events for one subscriber queue on
// the row lock, and duplicates can never produce a second row.
//
// When fields.Plan is nil (cancel/reactivate traffic) no row is created;
// ErrNotFound is returned if the subscriber has none.
func (s *SubscriptionService) Upsert(ctx context.Context, subscriberID string, fields UpsertFields) (*model.Subscription, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin upsert for %s: %w", subscriberID, err)
	}
	defer tx.Rollback(ctx)

	var row pgx.Row
	if fields.Plan == nil {
		row = tx.QueryRow(ctx,
			`UPDATE subscriptions SET
				status = COALESCE($2, status),
				external_subscription_ref = COALESCE($3, external_subscription_ref),
				external_customer_ref = COALESCE($4, external_customer_ref),
				period_start = COALESCE($5, period_start),
				period_end = COALESCE($6, period_end),
				updated_at = now()
			 WHERE subscriber_id = $1
			 RETURNING `+subscriptionColumns,
			subscriberID, fields.Status, fields.ExternalSubscriptionRef,
			fields.ExternalCustomerRef, fields.PeriodStart, fields.PeriodEnd,
		)
	} else {
		now := time.Now().UTC()
		insertStatus := model.StatusActive
		if fields.Status != nil {
			insertStatus = *fields.Status
		}
		insertStart := now
		if fields.PeriodStart != nil {
			insertStart = *fields.PeriodStart
		}
		var insertEnd time.Time
		if fields.PeriodEnd != nil {
			insertEnd = *fields.PeriodEnd
		} else {
			insertEnd, err = billing.PeriodEnd(*fields.Plan, insertStart)
			if err != nil {
				return nil, fmt.Errorf("default period end for %s: %w", subscriberID, err)
			}
		}

		row = tx.QueryRow(ctx,
			`INSERT INTO subscriptions
				(subscriber_id, plan, status, external_subscription_ref,
				 external_customer_ref, period_start, period_end, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			 ON CONFLICT (subscriber_id) DO UPDATE SET
				plan = EXCLUDED.plan,
				status = COALESCE($8, subscriptions.status),
				external_subscription_ref = COALESCE($4, subscriptions.external_subscription_ref),
				external_customer_ref = COALESCE($5, subscriptions.external_customer_ref),
				period_start = COALESCE($9, subscriptions.period_start),
				period_end = COALESCE($10, subscriptions.period_end),
				updated_at = now()
			 RETURNING `+subscriptionColumns,
			subscriberID, *fields.Plan, insertStatus, fields.ExternalSubscriptionRef,
			fields.ExternalCustomerRef, insertStart, insertEnd,
			fields.Status, fields.PeriodStart, fields.PeriodEnd,
		)
	}

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("subscription %s: %w", subscriberID, ErrNotFound)
		}
		return nil, fmt.Errorf("upsert subscription %s: %w", subscriberID, err)
	}

	text, accurate := billing.Annotate(sub.Plan, sub.PeriodStart, sub.PeriodEnd)
	if text != sub.PeriodText || accurate != sub.PeriodAccurate {
		if _, err := tx.Exec(ctx,
			`UPDATE subscriptions SET period_text = $2, period_accurate = $3 WHERE subscriber_id = $1`,
			subscriberID, text, accurate,
		); err != nil {
			return nil, fmt.Errorf("annotate subscription %s: %w", subscriberID, err)
		}
		sub.PeriodText = text
		sub.PeriodAccurate = accurate
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit upsert for %s: %w", subscriberID, err)
	}
	return sub, nil
}

func (s *SubscriptionService) GetBySubscriber(ctx context.Context, subscriberID string) (*model.Subscription, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE subscriber_id = $1`,
		subscriberID,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("subscription %s: %w", subscriberID, ErrNotFound)
		}
		return nil, fmt.Errorf("get subscription %s: %w", subscriberID, err)
	}
	return sub, nil
}

func (s *SubscriptionService) List(ctx context.Context, params request.ListParams) ([]model.Subscription, bool, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE true`
	args := []any{}
	argIdx := 1

	if params.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, params.Status)
		argIdx++
	}
	if params.Plan != "" {
		query += fmt.Sprintf(` AND plan = $%d`, argIdx)
		args = append(args, params.Plan)
		argIdx++
	}
	if params.Cursor != "" {
		query += fmt.Sprintf(` AND subscriber_id > $%d`, argIdx)
		args = append(args, params.Cursor)
		argIdx++
	}

	query += ` ORDER BY subscriber_id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, params.Limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate subscriptions: %w", err)
	}

	hasMore := len(subs) > params.Limit
	if hasMore {
		subs = subs[:params.Limit]
	}
	return subs, hasMore, nil
}

// ExpireLapsed transitions active and past_due rows whose paid period has
// ended to expired, and returns how many rows changed. Entitlement checks
// are already correct without it (they compare against period_end), so this
// is bookkeeping that keeps dashboard stats honest.
func (s *SubscriptionService) ExpireLapsed(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = now()
		 WHERE status IN ($2, $3) AND period_end < now()`,
		model.StatusExpired, model.StatusActive, model.StatusPastDue,
	)
	if err != nil {
		return 0, fmt.Errorf("expire lapsed subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSubscription(row interface{ Scan(dest ...any) error }) (*model.Subscription, error) {
	var sub model.Subscription
	err := row.Scan(
		&sub.SubscriberID, &sub.Plan, &sub.Status,
		&sub.ExternalSubscriptionRef, &sub.ExternalCustomerRef,
		&sub.PeriodStart, &sub.PeriodEnd, &sub.PeriodText, &sub.PeriodAccurate,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
