package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sellora/internal/model"
	"sellora/internal/payment"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusForCode maps domain error codes to HTTP statuses.
var statusForCode = map[string]int{
	model.ErrCodeProductNotFound:   http.StatusNotFound,
	model.ErrCodeOrderNotFound:     http.StatusNotFound,
	model.ErrCodeInvalidQuantity:   http.StatusBadRequest,
	model.ErrCodeInsufficientStock: http.StatusConflict,
	model.ErrCodeEmptyCart:         http.StatusBadRequest,
	model.ErrCodePaymentDeclined:   http.StatusPaymentRequired,
	model.ErrCodeInvalidStatus:     http.StatusBadRequest,
	model.ErrCodeForbidden:         http.StatusForbidden,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError translates service-layer errors into HTTP responses.
// Unrecognised errors become an opaque 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var validationErr *payment.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "payment details failed validation",
			Code:   model.ErrCodeValidationFailed,
			Fields: validationErr.Fields,
		})
		return
	}

	var transitionErr *model.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: transitionErr.Error(),
			Code:  model.ErrCodeInvalidTransition,
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusForCode[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg(domainErr.Message)
		writeJSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}

	logger.Error().Err(err).Msg("unhandled service error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  model.ErrCodeInternalError,
	})
}
