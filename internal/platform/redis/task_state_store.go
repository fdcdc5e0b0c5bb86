// Package redis provides the Redis-backed implementation of the task
// state store. Handed-out tasks live here between generate and
// validate; Redis TTLs give abandoned tasks their expiry for free.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// taskKeyPrefix namespaces task state keys in the shared Redis database.
const taskKeyPrefix = "task:"

// TaskStateStore implements the store.TaskStateStore interface using
// Redis as the storage backend.
type TaskStateStore struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewTaskStateStore creates a new Redis implementation of the
// TaskStateStore interface. It accepts a connected client managed by
// the caller. If logger is nil, a default logger will be used.
func NewTaskStateStore(client *goredis.Client, logger *slog.Logger) *TaskStateStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStateStore{
		client: client,
		logger: logger.With(slog.String("component", "task_state_store")),
	}
}

// Ensure TaskStateStore implements store.TaskStateStore interface
var _ store.TaskStateStore = (*TaskStateStore)(nil)

// Save implements store.TaskStateStore.Save
func (s *TaskStateStore) Save(ctx context.Context, state *domain.TaskState, ttl time.Duration) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("task state validation failed during save",
			slog.String("error", err.Error()),
			slog.String("task_id", state.TaskID.String()))
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("task state TTL must be positive, got %s", ttl)
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal task state: %w", err)
	}

	if err := s.client.Set(ctx, taskKey(state.TaskID), payload, ttl).Err(); err != nil {
		log.Error("failed to save task state",
			slog.String("error", err.Error()),
			slog.String("task_id", state.TaskID.String()))
		return err
	}

	log.Debug("task state saved",
		slog.String("task_id", state.TaskID.String()),
		slog.String("task_kind", string(state.Kind)),
		slog.Duration("ttl", ttl))
	return nil
}

// Get implements store.TaskStateStore.Get
// Returns store.ErrTaskStateNotFound when the state is missing or has
// expired.
func (s *TaskStateStore) Get(ctx context.Context, taskID uuid.UUID) (*domain.TaskState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := s.client.Get(ctx, taskKey(taskID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			log.Debug("task state not found",
				slog.String("task_id", taskID.String()))
			return nil, store.ErrTaskStateNotFound
		}
		log.Error("failed to get task state",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}

	var state domain.TaskState
	if err := json.Unmarshal(payload, &state); err != nil {
		log.Error("failed to unmarshal task state",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, fmt.Errorf("failed to unmarshal task state: %w", err)
	}

	return &state, nil
}

// Delete implements store.TaskStateStore.Delete
func (s *TaskStateStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.client.Del(ctx, taskKey(taskID)).Err(); err != nil {
		log.Error("failed to delete task state",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return err
	}
	return nil
}

func taskKey(taskID uuid.UUID) string {
	return taskKeyPrefix + taskID.String()
}
