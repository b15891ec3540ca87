package handler

import (
	"net/http"

	"github.com/cardstamp/loyalty/internal/api/response"
	"github.com/cardstamp/loyalty/internal/billing"
)

type Plan struct{}

func NewPlan() *Plan {
	return &Plan{}
}

// List godoc
//
//	@Summary		List the plan catalog
//	@Tags			Plans
//	@Success		200 {array} billing.PlanSpec
//	@Router			/plans [get]
func (h *Plan) List(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, billing.Specs())
}
