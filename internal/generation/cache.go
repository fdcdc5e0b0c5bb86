package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// Cache persists provider-generated payloads keyed by parameter
// fingerprint so that repeated requests with the same inputs skip the
// provider call. Entries never expire; history accumulates and lookups
// return the most recent payload.
type Cache struct {
	tasks  store.GeneratedTaskStore
	logger *slog.Logger
}

// NewCache creates a Cache backed by the given store.
// It panics if tasks or logger is nil.
func NewCache(tasks store.GeneratedTaskStore, logger *slog.Logger) *Cache {
	if tasks == nil {
		panic("generated task store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Cache{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "generation_cache")),
	}
}

// Lookup returns the most recent payload stored for the fingerprint.
// Returns ErrCacheMiss when nothing has been stored yet.
func (c *Cache) Lookup(ctx context.Context, fingerprint string) (json.RawMessage, error) {
	record, err := c.tasks.GetLatestByFingerprint(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrGeneratedTaskNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to look up cached payload: %w", err)
	}

	c.logger.DebugContext(ctx, "cache hit",
		slog.String("fingerprint", fingerprint),
		slog.String("task_kind", string(record.TaskKind)))
	return record.Payload, nil
}

// Store appends the payload for the fingerprint. Older entries for the
// same fingerprint are kept but no longer returned by Lookup.
func (c *Cache) Store(ctx context.Context, kind domain.TaskKind, fingerprint string, payload json.RawMessage) error {
	record, err := domain.NewGeneratedTaskRecord(fingerprint, kind, payload)
	if err != nil {
		return fmt.Errorf("failed to build generated task record: %w", err)
	}
	if err := c.tasks.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store generated payload: %w", err)
	}
	return nil
}
