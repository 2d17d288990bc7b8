package httpapi

import (
	"errors"
	"net/http"

	"github.com/davramirez/contabook/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }

// writeDomainErr maps domain sentinels to HTTP statuses. Aggregation
// failures answer with a generic body; the cause is already logged where it
// happened.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidParameter):
		writeErr(w, http.StatusBadRequest, err.Error(), "invalid_parameter")
	case errors.Is(err, errs.ErrInvalidEntry):
		writeErr(w, http.StatusUnprocessableEntity, err.Error(), "invalid_entry")
	case errors.Is(err, errs.ErrReferenceNotFound):
		writeErr(w, http.StatusUnprocessableEntity, err.Error(), "reference_not_found")
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, err.Error(), "conflict")
	case errors.Is(err, errs.ErrPeriodClosed):
		writeErr(w, http.StatusConflict, err.Error(), "period_closed")
	case errors.Is(err, errs.ErrAggregationFailure):
		writeErr(w, http.StatusInternalServerError, "report generation failed", "aggregation_failure")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error", "")
	}
}
