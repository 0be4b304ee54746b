package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"sellora/internal/middleware"
	"sellora/internal/model"
	"sellora/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type trackingRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

// List handles GET /api/orders requests for the calling buyer.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user identity is required", h.logger)
		return
	}

	status := model.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status filter", h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), userID, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve orders", h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id} requests. The path value may be either
// the order UUID or the confirmation number shown to the buyer.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return
	}

	var order *model.Order
	var err error
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = h.service.GetByID(r.Context(), id)
	} else if strings.HasPrefix(ref, model.ConfirmationPrefix) {
		order, err = h.service.GetByConfirmationNumber(r.Context(), ref)
	} else {
		writeDomainError(w, model.ErrOrderNotFound, h.logger)
		return
	}
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	to := model.OrderStatus(req.Status)
	if !to.Valid() {
		writeDomainError(w, model.ErrInvalidStatus, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, to)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateTracking handles PUT /api/orders/{id}/tracking requests.
func (h *OrderHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	var req trackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.TrackingNumber) == "" {
		writeError(w, http.StatusBadRequest, "trackingNumber is required", h.logger)
		return
	}

	order, err := h.service.UpdateTracking(r.Context(), id, strings.TrimSpace(req.TrackingNumber))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// MarkDelivered handles POST /api/orders/{id}/delivered requests.
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	order, err := h.service.MarkDelivered(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
