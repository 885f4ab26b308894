package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/TapStake_Go/internal/domain"
	"github.com/osse101/TapStake_Go/internal/logger"
)

// statusForKind maps an error kind to its HTTP status
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// mapServiceError converts a service error to a status and response body.
// Internal errors never leak their message.
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: domain.ErrMsgInternal}
	}
	status := statusForKind(domain.KindOf(err))
	body := ErrorResponse{Error: domain.CodeOf(err)}

	var notReady *domain.EscrowNotReadyError
	if errors.As(err, &notReady) {
		body.Error = domain.ErrMsgEscrowNotReady
		body.Details = notReady.Readiness
	}
	var payout *domain.PayoutError
	if errors.As(err, &payout) {
		body.Details = map[string]string{"provider": payout.Provider, "message": payout.Message}
	}
	return status, body
}

// respondServiceError logs err and writes the mapped response
func respondServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status, body := mapServiceError(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "action", action, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "action", action, "code", body.Error)
	}
	respondJSON(w, status, body)
}
