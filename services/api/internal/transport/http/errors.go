package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

const (
	codeMethodNotAllowed        = "method_not_allowed"
	codeNotFound                = "not_found"
	codeInvalidRequestBody      = "invalid_request_body"
	codeInvalidID               = "invalid_id"
	codeUserRequired            = "user_id_required"
	codeForbidden               = "forbidden"
	codeNotOwner                = "not_owner"
	codeTitleRequired           = "title_required"
	codeDatesRequired           = "dates_required"
	codeInvalidDateRange        = "invalid_date_range"
	codeDateSpanTooLong         = "date_span_too_long"
	codeInvalidDate             = "invalid_date"
	codeListingNotFound         = "listing_not_found"
	codeInvalidTransition       = "invalid_transition"
	codeTransitionConflict      = "transition_conflict"
	codeNotEditable             = "listing_not_editable"
	codeDateEditNotAllowed      = "date_edit_not_allowed"
	codeRejectionReasonRequired = "rejection_reason_required"
	codePaymentUnavailable      = "payment_unavailable"
	codeInternalError           = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps engine errors onto the JSON error envelope.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		writeError(w, http.StatusNotFound, codeListingNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case errors.Is(err, domain.ErrDatesRequired):
		writeError(w, http.StatusBadRequest, codeDatesRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange):
		writeError(w, http.StatusUnprocessableEntity, codeInvalidDateRange, err.Error())
	case errors.Is(err, domain.ErrDateSpanTooLong):
		writeError(w, http.StatusUnprocessableEntity, codeDateSpanTooLong, err.Error())
	case errors.Is(err, domain.ErrInvalidDateData):
		writeError(w, http.StatusBadRequest, codeInvalidDate, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrTransitionConflict):
		writeError(w, http.StatusConflict, codeTransitionConflict, err.Error())
	case errors.Is(err, domain.ErrListingNotEditable):
		writeError(w, http.StatusConflict, codeNotEditable, err.Error())
	case errors.Is(err, domain.ErrDateEditNotAllowed):
		writeError(w, http.StatusConflict, codeDateEditNotAllowed, err.Error())
	case errors.Is(err, domain.ErrRejectionReasonRequired):
		writeError(w, http.StatusBadRequest, codeRejectionReasonRequired, err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeError(w, http.StatusForbidden, codeNotOwner, err.Error())
	case errors.Is(err, domain.ErrPaymentUnavailable):
		writeError(w, http.StatusServiceUnavailable, codePaymentUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
