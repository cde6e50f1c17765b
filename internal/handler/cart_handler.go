package handler

import (
	"encoding/json"
	"net/http"

	"agrimart/internal/model"
	"agrimart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	lines, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	var req model.CartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	line, err := h.service.AddItem(r.Context(), userID, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

// RemoveItem handles DELETE /api/cart/items/{itemId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	itemID, err := pathUUID(r.URL.Path, "/api/cart/items/")
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, itemID); err != nil {
		respondError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "item removed"})
}
