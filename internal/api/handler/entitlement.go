package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardstamp/loyalty/internal/api/request"
	"github.com/cardstamp/loyalty/internal/api/response"
	"github.com/cardstamp/loyalty/internal/core"
)

type Entitlement struct {
	svc *core.EntitlementService
}

func NewEntitlement(svc *core.EntitlementService) *Entitlement {
	return &Entitlement{svc: svc}
}

// Resolve godoc
//
//	@Summary		Resolve current access and feature tier for a subscriber
//	@Tags			Entitlements
//	@Param			subscriberID path string true "Subscriber ID"
//	@Success		200 {object} core.Entitlement
//	@Failure		400 {object} response.ErrorResponse
//	@Router			/subscriptions/{subscriberID}/entitlement [get]
func (h *Entitlement) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "subscriberID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Always 200: the resolver fails open internally rather than blocking
	// the platform's access checks on backend trouble.
	response.WriteJSON(w, http.StatusOK, h.svc.Resolve(r.Context(), id))
}
