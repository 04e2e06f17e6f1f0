package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/payment"
	"toolshare-booking-backend/internal/service"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps service sentinels onto HTTP statuses and stable error
// codes. Provider errors pass their message through verbatim so the
// caller sees the decline reason, not a generic wrapper.
func writeError(w http.ResponseWriter, err error) {
	var provider *payment.ProviderError
	if errors.As(err, &provider) {
		writeJSON(w, http.StatusPaymentRequired, errorResponse{
			Code:    "payment_failed",
			Message: provider.Message,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrStartDateRequired),
		errors.Is(err, service.ErrEndDateRequired),
		errors.Is(err, service.ErrStartAfterEnd),
		errors.Is(err, service.ErrDurationExceeded),
		errors.Is(err, service.ErrInvalidQuote),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: err.Error()})
	case errors.Is(err, service.ErrPeriodUnavailable):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "period_unavailable", Message: err.Error()})
	case errors.Is(err, service.ErrCheckoutInProgress):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "checkout_in_progress", Message: err.Error()})
	case errors.Is(err, service.ErrPaymentDeclined):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Code: "payment_declined", Message: err.Error()})
	case errors.Is(err, service.ErrChallengeAbandoned):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Code: "challenge_abandoned", Message: err.Error()})
	case errors.Is(err, service.ErrChallengeTimedOut):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Code: "challenge_timeout", Message: err.Error()})
	case errors.Is(err, service.ErrPostPaymentInconsistency):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "post_payment_inconsistency", Message: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthorized", Message: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "invalid_credentials", Message: err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "email_taken", Message: err.Error()})
	default:
		logger.Error("unhandled service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal", Message: "internal server error"})
	}
}
