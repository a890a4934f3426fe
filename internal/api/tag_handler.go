package api

import (
	"log/slog"
	"net/http"

	"github.com/chetarea/tarea-api/internal/api/shared"
	"github.com/chetarea/tarea-api/internal/service"
)

// TagHandler handles tag requests.
type TagHandler struct {
	tags   service.TagService
	logger *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags service.TagService, log *slog.Logger) *TagHandler {
	if tags == nil {
		panic("tags cannot be nil for TagHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TagHandler{
		tags:   tags,
		logger: log.With(slog.String("component", "tag_handler")),
	}
}

// List handles GET /api/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	tags, err := h.tags.List(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tags")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tagsToResponse(tags))
}

// Get handles GET /api/tags/{id}.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, tagID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	tag, err := h.tags.Get(r.Context(), actor, tagID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get tag")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tagToResponse(tag))
}

// Create handles POST /api/tags.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	var req CreateTagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tag, err := h.tags.Create(r.Context(), actor, service.CreateTagInput{
		Name:      req.Name,
		Color:     req.Color,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create tag")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, tagToResponse(tag))
}

// Update handles PUT /api/tags/{id}.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, tagID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTagRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tag, err := h.tags.Update(r.Context(), actor, tagID, service.TagChanges{
		Name:      req.Name,
		Color:     req.Color,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update tag")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tagToResponse(tag))
}

// Delete handles DELETE /api/tags/{id}. The tag is detached from every task.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, tagID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tags.Delete(r.Context(), actor, tagID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
