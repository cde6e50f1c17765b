package handler

import (
	"encoding/json"
	"net/http"

	"agrimart/internal/model"
	"agrimart/internal/service"

	"github.com/rs/zerolog"
)

// FulfillmentHandler handles per-item fulfillment HTTP requests.
type FulfillmentHandler struct {
	service service.FulfillmentService
	logger  zerolog.Logger
}

// NewFulfillmentHandler creates a new fulfillment handler.
func NewFulfillmentHandler(service service.FulfillmentService, logger zerolog.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		service: service,
		logger:  logger.With().Str("handler", "fulfillment").Logger(),
	}
}

// TransitionItem handles PUT /api/order-items/{id}/status requests.
func (h *FulfillmentHandler) TransitionItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	itemID, err := pathUUID(r.URL.Path, "/api/order-items/")
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	var req model.ItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.service.TransitionItem(r.Context(), actor, itemID, req.Status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Statuses handles GET /api/fulfillment-statuses requests.
func (h *FulfillmentHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	statuses, err := h.service.Statuses(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}
