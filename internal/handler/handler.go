package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
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
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondError maps a service error onto an HTTP status by its type.
func respondError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var (
		validationErr   *model.ValidationError
		notFoundErr     *model.NotFoundError
		unauthorisedErr *model.UnauthorizedError
		conflictErr     *model.ConflictError
		ineligibleErr   *model.PromotionIneligibleError
	)

	switch {
	case errors.As(err, &validationErr):
		logger.Warn().Err(err).Msg("validation failed")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Code:   model.ErrCodeValidation,
			Fields: validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, err.Error(), logger)
	case errors.As(err, &unauthorisedErr):
		writeError(w, http.StatusForbidden, model.ErrCodeUnauthorised, err.Error(), logger)
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, model.ErrCodeConflict, err.Error(), logger)
	case errors.As(err, &ineligibleErr):
		writeError(w, http.StatusUnprocessableEntity, model.ErrCodePromotionIneligible, err.Error(), logger)
	default:
		logger.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  model.ErrCodeInternalError,
		})
	}
}

// userIDFromRequest reads the authenticated user identity set by the gateway.
func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-User-Id")
	if raw == "" {
		return uuid.Nil, model.NewUnauthorizedError("missing user identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewUnauthorizedError("invalid user identity")
	}
	return id, nil
}

// actorFromRequest reads the acting identity set by the gateway. Shop
// ownership arrives as a comma-separated UUID list.
func actorFromRequest(r *http.Request) (model.Actor, error) {
	raw := r.Header.Get("X-Actor-Id")
	if raw == "" {
		return model.Actor{}, model.NewUnauthorizedError("missing actor identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return model.Actor{}, model.NewUnauthorizedError("invalid actor identity")
	}

	actor := model.Actor{ID: id, Role: r.Header.Get("X-Actor-Role")}
	if shops := r.Header.Get("X-Shop-Ids"); shops != "" {
		for _, part := range strings.Split(shops, ",") {
			shopID, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				return model.Actor{}, model.NewUnauthorizedError("invalid shop identity")
			}
			actor.ShopIDs = append(actor.ShopIDs, shopID)
		}
	}
	return actor, nil
}

// pathUUID extracts the identifier segment following the prefix, tolerating a
// trailing sub-path.
func pathUUID(path, prefix string) (uuid.UUID, error) {
	if !strings.HasPrefix(path, prefix) {
		return uuid.Nil, model.NewValidationError("id", "identifier is required")
	}
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return uuid.Nil, model.NewValidationError("id", "identifier is required")
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, model.NewValidationError("id", "invalid identifier format")
	}
	return id, nil
}
