package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/chetarea/tarea-api/internal/api/shared"
	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getActor returns the authenticated actor, writing a 401 response when the
// authentication middleware did not run.
func getActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("actor not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return domain.Actor{}, false
	}
	return actor, true
}

// getPathUUID parses the named chi URL parameter as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// handleActorAndPathUUID extracts the actor and one path UUID, writing the
// error response itself when either is missing or invalid.
func handleActorAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (domain.Actor, uuid.UUID, bool) {
	actor, ok := getActor(w, r)
	if !ok {
		return domain.Actor{}, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return domain.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

// decodeAndValidate decodes the JSON body into req and runs struct validation,
// writing a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		logger.FromContext(r.Context()).Debug("invalid request format",
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// parseDefaultTag interprets a default_tag_id field: nil leaves it unchanged,
// "" clears it, anything else must be a UUID.
func parseDefaultTag(raw *string) (id *uuid.UUID, clear bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, true, nil
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return nil, false, fmt.Errorf("%w: default_tag_id", domain.ErrInvalidID)
	}
	return &parsed, false, nil
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, name)
	}
	return &id, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrValidation, name)
	}
	return &v, nil
}
