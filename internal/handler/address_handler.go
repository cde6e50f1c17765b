package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"agrimart/internal/model"
	"agrimart/internal/service"

	"github.com/rs/zerolog"
)

// AddressHandler handles address-registry HTTP requests.
type AddressHandler struct {
	service service.AddressService
	logger  zerolog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(service service.AddressService, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger.With().Str("handler", "address").Logger(),
	}
}

// Collection handles POST and GET /api/addresses requests.
func (h *AddressHandler) Collection(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req model.AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}

		addr, err := h.service.Create(r.Context(), userID, &req)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, addr)

	case http.MethodGet:
		addresses, err := h.service.List(r.Context(), userID)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, addresses)

	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
	}
}

// Member handles /api/addresses/{id} and /api/addresses/{id}/default requests.
func (h *AddressHandler) Member(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	addressID, err := pathUUID(r.URL.Path, "/api/addresses/")
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	switch {
	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/default"):
		if err := h.service.SetDefault(r.Context(), userID, addressID); err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "default updated"})

	case r.Method == http.MethodDelete:
		if err := h.service.Deactivate(r.Context(), userID, addressID); err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "address deactivated"})

	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
	}
}
