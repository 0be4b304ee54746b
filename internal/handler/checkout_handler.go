package handler

import (
	"encoding/json"
	"net/http"

	"sellora/internal/middleware"
	"sellora/internal/payment"
	"sellora/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user identity is required", h.logger)
		return
	}

	var form payment.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Checkout(r.Context(), userID, middleware.UserName(r.Context()), form)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Str("confirmation", order.ConfirmationNumber).
		Msg("checkout completed")
	writeJSON(w, http.StatusCreated, order)
}
