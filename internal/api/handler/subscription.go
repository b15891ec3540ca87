package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardstamp/loyalty/internal/api/request"
	"github.com/cardstamp/loyalty/internal/api/response"
	"github.com/cardstamp/loyalty/internal/core"
	"github.com/cardstamp/loyalty/internal/model"
)

type Subscription struct {
	svc        *core.SubscriptionService
	reconciler *core.ReconcilerService
}

func NewSubscription(svc *core.SubscriptionService, reconciler *core.ReconcilerService) *Subscription {
	return &Subscription{svc: svc, reconciler: reconciler}
}

// List godoc
//
//	@Summary		List subscriptions
//	@Tags			Subscriptions
//	@Param			status query string false "Filter by status"
//	@Param			plan query string false "Filter by plan"
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Subscription}
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/subscriptions [get]
func (h *Subscription) List(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r)

	subs, hasMore, err := h.svc.List(r.Context(), params)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var nextCursor string
	if hasMore && len(subs) > 0 {
		nextCursor = subs[len(subs)-1].SubscriberID
	}
	response.WritePaginated(w, http.StatusOK, subs, nextCursor, hasMore)
}

// Get godoc
//
//	@Summary		Get a subscription
//	@Tags			Subscriptions
//	@Param			subscriberID path string true "Subscriber ID"
//	@Success		200 {object} model.Subscription
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/subscriptions/{subscriberID} [get]
func (h *Subscription) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "subscriberID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.svc.GetBySubscriber(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, sub)
}

// Cancel godoc
//
//	@Summary		Cancel a subscription at period end
//	@Tags			Subscriptions
//	@Param			subscriberID path string true "Subscriber ID"
//	@Param			body body request.StatusChange false "Cancellation reason (audit only)"
//	@Success		200 {object} model.Subscription
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/subscriptions/{subscriberID}/cancel [post]
func (h *Subscription) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.reconciler.Cancel)
}

// Reactivate godoc
//
//	@Summary		Reactivate a cancelled subscription
//	@Tags			Subscriptions
//	@Param			subscriberID path string true "Subscriber ID"
//	@Param			body body request.StatusChange false "Reason (audit only)"
//	@Success		200 {object} model.Subscription
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/subscriptions/{subscriberID}/reactivate [post]
func (h *Subscription) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.reconciler.Reactivate)
}

func (h *Subscription) setStatus(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, subscriberID, reason string) (*model.Subscription, error),
) {
	id, err := request.RequireID(chi.URLParam(r, "subscriberID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.StatusChange
	if err := request.DecodeOptional(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := op(r.Context(), id, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// A nil subscription means there was nothing to change: cancelling or
	// reactivating an unknown subscriber is a no-op, not an error.
	if sub == nil {
		response.WriteJSON(w, http.StatusOK, map[string]string{"result": "no subscription stored, nothing to do"})
		return
	}
	response.WriteJSON(w, http.StatusOK, sub)
}

// ExpireLapsed godoc
//
//	@Summary		Expire subscriptions whose paid period has ended
//	@Tags			Subscriptions
//	@Success		200 {object} map[string]int64
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/subscriptions/expire-lapsed [post]
func (h *Subscription) ExpireLapsed(w http.ResponseWriter, r *http.Request) {
	expired, err := h.svc.ExpireLapsed(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]int64{"expired": expired})
}
