// Package service orchestrates the task lifecycle: generation hands
// out a task and parks its answer key in the expiring state store;
// validation grades a submitted answer inside one database transaction
// and consumes the state. The kind-specific logic lives in the tasks
// package; this layer owns transactions, state, and dispatch.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/store"
	"github.com/ppetrenko/techvocab-api/internal/tasks"
)

// TaskService runs the generate/validate lifecycle for all task kinds.
// The kind set is closed; dispatch is an exhaustive switch so an
// unsupported kind is rejected before any store is touched.
type TaskService struct {
	db         *sql.DB
	logger     *slog.Logger
	stores     tasks.Stores
	taskStates store.TaskStateStore
	stateTTL   time.Duration

	wordTranslation tasks.Handler
	termDefinition  tasks.Handler
	wordMatching    tasks.Handler
	chatDialog      tasks.Handler
	emailStructure  tasks.Handler
}

// TaskServiceConfig bundles the dependencies of NewTaskService.
type TaskServiceConfig struct {
	DB         *sql.DB
	Logger     *slog.Logger
	Stores     tasks.Stores
	TaskStates store.TaskStateStore
	StateTTL   time.Duration

	WordTranslation tasks.Handler
	TermDefinition  tasks.Handler
	WordMatching    tasks.Handler
	ChatDialog      tasks.Handler
	EmailStructure  tasks.Handler
}

// NewTaskService creates the service.
// It panics if any dependency is nil or the TTL is not positive.
func NewTaskService(cfg TaskServiceConfig) *TaskService {
	if cfg.DB == nil {
		panic("db cannot be nil")
	}
	if cfg.Logger == nil {
		panic("logger cannot be nil")
	}
	if cfg.TaskStates == nil {
		panic("task state store cannot be nil")
	}
	if cfg.StateTTL <= 0 {
		panic("state TTL must be positive")
	}
	for _, h := range []tasks.Handler{
		cfg.WordTranslation, cfg.TermDefinition, cfg.WordMatching,
		cfg.ChatDialog, cfg.EmailStructure,
	} {
		if h == nil {
			panic("all task handlers must be set")
		}
	}

	return &TaskService{
		db:              cfg.DB,
		logger:          cfg.Logger.With(slog.String("component", "task_service")),
		stores:          cfg.Stores,
		taskStates:      cfg.TaskStates,
		stateTTL:        cfg.StateTTL,
		wordTranslation: cfg.WordTranslation,
		termDefinition:  cfg.TermDefinition,
		wordMatching:    cfg.WordMatching,
		chatDialog:      cfg.ChatDialog,
		emailStructure:  cfg.EmailStructure,
	}
}

// handlerFor dispatches over the closed kind set.
func (s *TaskService) handlerFor(kind domain.TaskKind) (tasks.Handler, error) {
	switch kind {
	case domain.TaskKindWordTranslation:
		return s.wordTranslation, nil
	case domain.TaskKindTermDefinition:
		return s.termDefinition, nil
	case domain.TaskKindWordMatching:
		return s.wordMatching, nil
	case domain.TaskKindChatDialog:
		return s.chatDialog, nil
	case domain.TaskKindEmailStructure:
		return s.emailStructure, nil
	default:
		return nil, fmt.Errorf("%w: unknown task kind %q", tasks.ErrValidation, kind)
	}
}

// GenerateTask builds a task of the given kind and stores its grading
// state with the configured TTL. The database work runs in one
// transaction; the state is saved only after it commits, so a task the
// caller receives is always gradable until the state expires.
func (s *TaskService) GenerateTask(
	ctx context.Context,
	kind domain.TaskKind,
	req tasks.GenerateRequest,
) (*domain.Task, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", tasks.ErrValidation)
	}

	handler, err := s.handlerFor(kind)
	if err != nil {
		return nil, err
	}

	var (
		task  *domain.Task
		state *domain.TaskState
	)
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		task, state, err = handler.Generate(ctx, s.stores.WithTx(tx), req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.taskStates.Save(ctx, state, s.stateTTL); err != nil {
		return nil, fmt.Errorf("failed to save task state: %w", err)
	}

	s.logger.InfoContext(ctx, "task generated",
		slog.String("task_id", task.ID.String()),
		slog.String("kind", string(kind)),
		slog.String("user_id", req.UserID.String()))
	return task, nil
}

// ValidateTask grades a submitted answer against the stored state.
// The state is consumed on a completed grading, successful or not, so a
// task cannot be graded twice. A missing or expired state maps to
// tasks.ErrNotFound.
func (s *TaskService) ValidateTask(
	ctx context.Context,
	kind domain.TaskKind,
	ans tasks.Answer,
) (*domain.Outcome, error) {
	if ans.TaskID == uuid.Nil {
		return nil, fmt.Errorf("%w: task ID is required", tasks.ErrValidation)
	}
	if ans.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user ID is required", tasks.ErrValidation)
	}

	handler, err := s.handlerFor(kind)
	if err != nil {
		return nil, err
	}

	state, err := s.taskStates.Get(ctx, ans.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskStateNotFound) {
			return nil, fmt.Errorf("%w: task %s expired or never existed", tasks.ErrNotFound, ans.TaskID)
		}
		return nil, fmt.Errorf("failed to load task state: %w", err)
	}

	if state.Kind != kind {
		return nil, fmt.Errorf("%w: task %s is a %s task", tasks.ErrValidation, ans.TaskID, state.Kind)
	}
	if state.UserID != ans.UserID {
		return nil, fmt.Errorf("%w: task %s", tasks.ErrNotFound, ans.TaskID)
	}

	var outcome *domain.Outcome
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		outcome, err = handler.Validate(ctx, s.stores.WithTx(tx), state, ans)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.taskStates.Delete(ctx, ans.TaskID); err != nil {
		// The grading already committed; a leftover state only risks a
		// double grade until the TTL clears it.
		s.logger.WarnContext(ctx, "failed to delete task state after grading",
			slog.String("task_id", ans.TaskID.String()),
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "task graded",
		slog.String("task_id", ans.TaskID.String()),
		slog.String("kind", string(kind)),
		slog.Bool("is_successful", outcome.IsSuccessful))
	return outcome, nil
}
