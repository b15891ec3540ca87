package handler

import (
	"net/http"

	"github.com/cardstamp/loyalty/internal/api/response"
	"github.com/cardstamp/loyalty/internal/core"
)

type Stats struct {
	svc *core.StatsService
}

func NewStats(svc *core.StatsService) *Stats {
	return &Stats{svc: svc}
}

// Get godoc
//
//	@Summary		Get subscription statistics
//	@Tags			Dashboard
//	@Success		200 {object} core.SubscriptionStats
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/dashboard/stats [get]
func (h *Stats) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, stats)
}
