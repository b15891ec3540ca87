package handler

import (
	"errors"
	"net/http"

	"github.com/cardstamp/loyalty/internal/api/response"
	"github.com/cardstamp/loyalty/internal/billing"
	"github.com/cardstamp/loyalty/internal/core"
)

// writeServiceError maps service errors onto HTTP statuses: unknown plans
// are unprocessable, missing rows are 404, anything else means the store is
// unreachable and the provider should retry delivery.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billing.ErrUnknownPlan):
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	default:
		response.WriteError(w, http.StatusServiceUnavailable, err.Error())
	}
}
