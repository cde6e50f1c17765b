package handler

import (
	"encoding/json"
	"net/http"

	"agrimart/internal/model"
	"agrimart/internal/service"

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

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Member handles GET and PATCH /api/orders/{id} requests.
func (h *OrderHandler) Member(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r.URL.Path, "/api/orders/")
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := h.service.GetByID(r.Context(), orderID)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, order)

	case http.MethodPatch:
		var req model.OrderUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}

		detail, err := h.service.UpdateOrder(r.Context(), orderID, &req)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, detail)

	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
	}
}
