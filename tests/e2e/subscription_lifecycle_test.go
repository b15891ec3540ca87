package e2e

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subscriptionBody struct {
	SubscriberID   string    `json:"subscriber_id"`
	Plan           string    `json:"plan"`
	Status         string    `json:"status"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	PeriodText     string    `json:"period_text"`
	PeriodAccurate bool      `json:"period_accurate"`
}

type entitlementBody struct {
	HasAccess     bool              `json:"has_access"`
	Subscription  *subscriptionBody `json:"subscription"`
	DaysRemaining int               `json:"days_remaining"`
}

func TestSubscriptionLifecycle(t *testing.T) {
	subscriberID := fmt.Sprintf("e2e-sub-%d", time.Now().UnixNano())

	// A subscriber with no stored row gets an implicit trial.
	var ent entitlementBody
	code := doJSON(t, http.MethodGet, "/subscriptions/"+subscriberID+"/entitlement", nil, &ent)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, ent.HasAccess)
	assert.Nil(t, ent.Subscription)
	assert.Equal(t, 30, ent.DaysRemaining)

	// A provider event creates the subscription.
	var sub subscriptionBody
	code = doJSON(t, http.MethodPost, "/billing/events", map[string]any{
		"subscriber_id": subscriberID,
		"plan":          "monthly",
		"status":        "active",
	}, &sub)
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "monthly", sub.Plan)
	assert.Equal(t, "active", sub.Status)
	assert.True(t, sub.PeriodEnd.After(sub.PeriodStart))
	assert.NotEmpty(t, sub.PeriodText)

	code = doJSON(t, http.MethodGet, "/subscriptions/"+subscriberID, nil, &sub)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, subscriberID, sub.SubscriberID)

	// Cancelling keeps access through the already-paid period.
	code = doJSON(t, http.MethodPost, "/subscriptions/"+subscriberID+"/cancel",
		map[string]any{"reason": "e2e run"}, &sub)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", sub.Status)

	code = doJSON(t, http.MethodGet, "/subscriptions/"+subscriberID+"/entitlement", nil, &ent)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, ent.HasAccess)
	require.NotNil(t, ent.Subscription)
	assert.Equal(t, "cancelled", ent.Subscription.Status)

	code = doJSON(t, http.MethodPost, "/subscriptions/"+subscriberID+"/reactivate", nil, &sub)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "active", sub.Status)
}

func TestWebhookRejectsUnknownPlan(t *testing.T) {
	var errBody map[string]string
	code := doJSON(t, http.MethodPost, "/billing/events", map[string]any{
		"subscriber_id": "e2e-unknown-plan",
		"plan":          "enterprise",
	}, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, errBody["error"], "unknown plan")
}

func TestCancelUnknownSubscriberIsNoOp(t *testing.T) {
	var body map[string]any
	code := doJSON(t, http.MethodPost, "/subscriptions/e2e-ghost/cancel", nil, &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "result")
}

func TestDashboardStats(t *testing.T) {
	var stats map[string]any
	code := doJSON(t, http.MethodGet, "/dashboard/stats", nil, &stats)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, stats, "total")
	assert.Contains(t, stats, "revenue")
	assert.Contains(t, stats, "churn_rate")
}
