package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/api/shared"
	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// Paging bounds for catalog listings.
const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// CatalogHandler serves the word/term catalog and the per-user
// favorite/known flags that live on mastery records.
type CatalogHandler struct {
	words   store.WordStore
	terms   store.TermStore
	mastery store.MasteryRecordStore
	logger  *slog.Logger

	now func() time.Time
}

// NewCatalogHandler creates a CatalogHandler.
// It panics if any dependency is nil.
func NewCatalogHandler(
	words store.WordStore,
	terms store.TermStore,
	mastery store.MasteryRecordStore,
	logger *slog.Logger,
) *CatalogHandler {
	if words == nil || terms == nil || mastery == nil {
		panic("catalog stores cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &CatalogHandler{
		words:   words,
		terms:   terms,
		mastery: mastery,
		logger:  logger.With(slog.String("component", "catalog_handler")),
		now:     time.Now,
	}
}

// ListWords handles GET /words.
func (h *CatalogHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)

	words, err := h.words.List(r.Context(), offset, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if words == nil {
		words = []*domain.Word{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// ListTerms handles GET /terms.
func (h *CatalogHandler) ListTerms(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)

	terms, err := h.terms.List(r.Context(), offset, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if terms == nil {
		terms = []*domain.Term{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, terms)
}

// SetWordFavorite handles POST /words/{id}/favorite.
func (h *CatalogHandler) SetWordFavorite(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, domain.ItemKindWord, func(record *domain.MasteryRecord, value bool) {
		record.IsFavorite = value
	})
}

// SetWordKnown handles POST /words/{id}/known.
func (h *CatalogHandler) SetWordKnown(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, domain.ItemKindWord, func(record *domain.MasteryRecord, value bool) {
		record.IsKnown = value
	})
}

// SetTermFavorite handles POST /terms/{id}/favorite.
func (h *CatalogHandler) SetTermFavorite(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, domain.ItemKindTerm, func(record *domain.MasteryRecord, value bool) {
		record.IsFavorite = value
	})
}

// SetTermKnown handles POST /terms/{id}/known.
func (h *CatalogHandler) SetTermKnown(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, domain.ItemKindTerm, func(record *domain.MasteryRecord, value bool) {
		record.IsKnown = value
	})
}

// setFlag is the shared implementation of the four flag toggles: check
// the item exists, then upsert the mastery record with the flag set.
// Flagging an item the user has never practiced creates its record, the
// same lazy creation that task exposure uses.
func (h *CatalogHandler) setFlag(
	w http.ResponseWriter,
	r *http.Request,
	kind domain.ItemKind,
	apply func(record *domain.MasteryRecord, value bool),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req ItemFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.checkItemExists(r.Context(), kind, itemID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	record, err := h.upsertFlag(r.Context(), userID, itemID, kind, req.Value, apply)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("item flag updated",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("item_kind", string(kind)),
		slog.Bool("value", req.Value))
	shared.RespondWithJSON(w, r, http.StatusOK, masteryToResponse(record))
}

func (h *CatalogHandler) checkItemExists(ctx context.Context, kind domain.ItemKind, itemID uuid.UUID) error {
	if kind == domain.ItemKindWord {
		_, err := h.words.GetByID(ctx, itemID)
		return err
	}
	_, err := h.terms.GetByID(ctx, itemID)
	return err
}

func (h *CatalogHandler) upsertFlag(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
	value bool,
	apply func(record *domain.MasteryRecord, value bool),
) (*domain.MasteryRecord, error) {
	record, err := h.mastery.Get(ctx, userID, itemID, kind)
	if err != nil {
		if !errors.Is(err, store.ErrMasteryRecordNotFound) {
			return nil, err
		}
		record, err = domain.NewMasteryRecord(userID, itemID, kind)
		if err != nil {
			return nil, err
		}
		apply(record, value)
		if err := h.mastery.Create(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	}

	apply(record, value)
	record.UpdatedAt = h.now().UTC()
	if err := h.mastery.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// pageParams reads offset/limit query parameters, clamping them to the
// supported range.
func pageParams(r *http.Request) (offset, limit int) {
	limit = defaultPageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return offset, limit
}
