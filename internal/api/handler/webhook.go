package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/cardstamp/loyalty/internal/api/request"
	"github.com/cardstamp/loyalty/internal/api/response"
	"github.com/cardstamp/loyalty/internal/core"
)

var webhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "billing_webhook_events_total",
		Help: "Inbound billing provider events by outcome",
	},
	[]string{"outcome"},
)

type Webhook struct {
	svc *core.ReconcilerService
}

func NewWebhook(svc *core.ReconcilerService) *Webhook {
	return &Webhook{svc: svc}
}

// Apply godoc
//
//	@Summary		Apply a billing provider event
//	@Tags			Billing
//	@Param			body body request.BillingEvent true "Provider event"
//	@Success		202 {object} model.Subscription
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		422 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/billing/events [post]
func (h *Webhook) Apply(w http.ResponseWriter, r *http.Request) {
	var req request.BillingEvent
	if err := request.Decode(r, &req); err != nil {
		webhookEventsTotal.WithLabelValues("rejected").Inc()
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Delivery ID correlates our logs with the provider's retry stream.
	deliveryID := uuid.New().String()
	zerolog.Ctx(r.Context()).Info().
		Str("delivery_id", deliveryID).
		Str("subscriber_id", req.SubscriberID).
		Str("plan", req.Plan).
		Msg("billing event received")

	sub, err := h.svc.Apply(r.Context(), core.ApplyParams{
		SubscriberID:            req.SubscriberID,
		Plan:                    req.Plan,
		Status:                  req.Status,
		ExternalSubscriptionRef: req.ExternalSubscriptionRef,
		ExternalCustomerRef:     req.ExternalCustomerRef,
		PeriodStart:             req.PeriodStart,
		PeriodEnd:               req.PeriodEnd,
	})
	if err != nil {
		webhookEventsTotal.WithLabelValues("failed").Inc()
		writeServiceError(w, err)
		return
	}

	webhookEventsTotal.WithLabelValues("applied").Inc()
	response.WriteJSON(w, http.StatusAccepted, sub)
}
