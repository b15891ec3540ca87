package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/cardstamp/loyalty/internal/core"
)

func newSubscriptionHandler() *Subscription {
	subs := core.NewSubscriptionService(nil)
	return NewSubscription(subs, core.NewReconcilerService(subs, zerolog.Nop()))
}

// --- Get ---

func TestSubscriptionGet_EmptyID(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/subscriptions/", nil)
	r = withChiURLParam(r, "subscriberID", "")

	h.Get(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "missing required ID")
}

// --- Cancel ---

func TestSubscriptionCancel_EmptyID(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/subscriptions//cancel", nil)
	r = withChiURLParam(r, "subscriberID", "")

	h.Cancel(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "missing required ID")
}

func TestSubscriptionCancel_InvalidJSON(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/subscriptions/"+validID+"/cancel", "{bad json")
	r = withChiURLParam(r, "subscriberID", validID)

	h.Cancel(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "invalid JSON")
}

// --- Reactivate ---

func TestSubscriptionReactivate_EmptyID(t *testing.T) {
	h := newSubscriptionHandler()
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/subscriptions//reactivate", nil)
	r = withChiURLParam(r, "subscriberID", "")

	h.Reactivate(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
