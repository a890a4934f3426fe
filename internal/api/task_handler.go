package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chetarea/tarea-api/internal/api/shared"
	"github.com/chetarea/tarea-api/internal/domain"
	"github.com/chetarea/tarea-api/internal/domain/lifecycle"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/retention"
	"github.com/chetarea/tarea-api/internal/service"
)

// SweepTrigger runs a retention sweep on demand. *retention.Sweeper satisfies it.
type SweepTrigger interface {
	RunOnce(ctx context.Context) retention.Result
}

// TaskHandler handles task board requests.
type TaskHandler struct {
	tasks   service.TaskService
	sweeper SweepTrigger
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, sweeper SweepTrigger, log *slog.Logger) *TaskHandler {
	if tasks == nil {
		panic("tasks cannot be nil for TaskHandler")
	}
	if sweeper == nil {
		panic("sweeper cannot be nil for TaskHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		tasks:   tasks,
		sweeper: sweeper,
		logger:  log.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /api/tasks?status=&priority=&assigned_to=&include_archived=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := service.TaskQuery{
		Status:   domain.TaskStatus(q.Get("status")),
		Priority: domain.Priority(q.Get("priority")),
	}
	if query.Status != "" && !query.Status.IsValid() {
		HandleAPIError(w, r, domain.ErrInvalidTaskStatus, "")
		return
	}
	if query.Priority != "" && !query.Priority.IsValid() {
		HandleAPIError(w, r, domain.ErrInvalidPriority, "")
		return
	}

	assignee, err := queryUUID(r, "assigned_to")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	query.AssignedTo = assignee

	archived, err := queryBool(r, "include_archived")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if archived != nil {
		query.IncludeArchived = *archived
	}

	tasks, err := h.tasks.List(r.Context(), actor, query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), actor, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Create(r.Context(), actor, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		TagIDs:      req.TagIDs,
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Update handles PUT /api/tasks/{id}. Status changes go through the lifecycle policy.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), actor, taskID, lifecycle.Changes{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		TagIDs:      req.TagIDs,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), actor, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddSubtask handles POST /api/tasks/{id}/subtasks.
func (h *TaskHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddSubtaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.AddSubtask(r.Context(), actor, taskID, req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add subtask")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateSubtask handles PUT /api/tasks/{id}/subtasks/{subtaskID}.
func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	subtaskID, err := getPathUUID(r, "subtaskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateSubtaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateSubtask(r.Context(), actor, taskID, subtaskID, lifecycle.SubtaskChanges{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update subtask")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteSubtask handles DELETE /api/tasks/{id}/subtasks/{subtaskID}.
func (h *TaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	subtaskID, err := getPathUUID(r, "subtaskID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.DeleteSubtask(r.Context(), actor, taskID, subtaskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete subtask")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// AddComment handles POST /api/tasks/{id}/comments.
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.AddComment(r.Context(), actor, taskID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Restore handles PUT /api/tasks/{id}/restore.
func (h *TaskHandler) Restore(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Restore(r.Context(), actor, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restore task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Approve handles PUT /api/tasks/{id}/approve.
func (h *TaskHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, taskID, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Approve(r.Context(), actor, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to approve task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Cleanup handles POST /api/tasks/cleanup by running a retention sweep now.
// The route is restricted to administrators by RequireAdmin.
func (h *TaskHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	actor, ok := getActor(w, r)
	if !ok {
		return
	}

	result := h.sweeper.RunOnce(r.Context())
	if !result.Succeeded() {
		HandleAPIError(w, r, result.Err, "Failed to clean up expired tasks")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("manual retention sweep completed",
		slog.String("actor_id", actor.UserID.String()),
		slog.Int64("deleted_count", result.DeletedCount))
	shared.RespondWithJSON(w, r, http.StatusOK, CleanupResponse{DeletedCount: result.DeletedCount})
}
