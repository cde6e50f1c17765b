package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"agrimart/internal/model"
	"agrimart/internal/service"

	"github.com/rs/zerolog"
)

// ProofHandler handles proof-of-delivery HTTP requests.
type ProofHandler struct {
	service service.ProofService
	logger  zerolog.Logger
}

// NewProofHandler creates a new proof-of-delivery handler.
func NewProofHandler(service service.ProofService, logger zerolog.Logger) *ProofHandler {
	return &ProofHandler{
		service: service,
		logger:  logger.With().Str("handler", "proof").Logger(),
	}
}

// Proofs handles /api/order-details/{id}/proofs requests: POST attaches a new
// proof, GET lists them, GET with a /latest suffix returns the authoritative
// record.
func (h *ProofHandler) Proofs(w http.ResponseWriter, r *http.Request) {
	detailID, err := pathUUID(r.URL.Path, "/api/order-details/")
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	switch {
	case r.Method == http.MethodPost:
		var req model.ProofRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}

		proof, err := h.service.Attach(r.Context(), detailID, &req)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, proof)

	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/latest"):
		proof, err := h.service.Latest(r.Context(), detailID)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, proof)

	case r.Method == http.MethodGet:
		proofs, err := h.service.List(r.Context(), detailID)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, proofs)

	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
	}
}
