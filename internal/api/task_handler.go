// Package api provides the HTTP handlers and routing for the service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/api/shared"
	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/tasks"
)

// TaskService is the task lifecycle surface the handlers call.
type TaskService interface {
	GenerateTask(ctx context.Context, kind domain.TaskKind, req tasks.GenerateRequest) (*domain.Task, error)
	ValidateTask(ctx context.Context, kind domain.TaskKind, ans tasks.Answer) (*domain.Outcome, error)
}

// TaskHandler handles task generation and validation requests.
type TaskHandler struct {
	taskService TaskService
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
// It panics if taskService or logger is nil.
func NewTaskHandler(taskService TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		panic("task service cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TaskHandler{
		taskService: taskService,
		validate:    validator.New(),
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// GenerateTask handles POST /tasks/generate/{kind}.
func (h *TaskHandler) GenerateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	kind, userID, ok := h.kindAndUser(w, r, log)
	if !ok {
		return
	}

	var req GenerateTaskRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("failed to decode generate request", slog.String("error", err.Error()))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("generate request failed validation", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request parameters")
		return
	}

	task, err := h.taskService.GenerateTask(r.Context(), kind, req.toGenerateRequest(userID))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task generated",
		slog.String("task_id", task.ID.String()),
		slog.String("kind", string(kind)))
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// ValidateTask handles POST /tasks/validate/{kind}.
func (h *TaskHandler) ValidateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	kind, userID, ok := h.kindAndUser(w, r, log)
	if !ok {
		return
	}

	var req ValidateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode validate request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validate request failed validation", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request parameters")
		return
	}

	outcome, err := h.taskService.ValidateTask(r.Context(), kind, req.toAnswer(userID))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task graded",
		slog.String("task_id", req.TaskID.String()),
		slog.String("kind", string(kind)),
		slog.Bool("is_successful", outcome.IsSuccessful))
	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// kindAndUser extracts the task kind from the path and the user ID from
// the authenticated context, writing the error response on failure.
func (h *TaskHandler) kindAndUser(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (domain.TaskKind, uuid.UUID, bool) {
	kind, err := domain.ParseTaskKind(chi.URLParam(r, "kind"))
	if err != nil {
		log.Warn("unknown task kind in path", slog.String("kind", chi.URLParam(r, "kind")))
		shared.RespondWithError(w, r, http.StatusNotFound, "Unknown task kind")
		return "", uuid.Nil, false
	}

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return "", uuid.Nil, false
	}

	return kind, userID, true
}
