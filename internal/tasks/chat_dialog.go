package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/domain/mastery"
	"github.com/ppetrenko/techvocab-api/internal/generation"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// Defaults for dialog generation: messages per speaker and how many
// words/terms a dialog weaves in when the caller pins none.
const (
	defaultMessagesCount = 3
	dialogWordsCount     = 3
	dialogTermsCount     = 3

	// multiItemAccuracyGate is the pass threshold shared by the
	// gap-fill and block-ordering kinds.
	multiItemAccuracyGate = 0.7
)

// dialogPayload is the provider's (and cache's) wire shape for a
// generated dialog. Gap answers ride along and are stripped before the
// content reaches the client.
type dialogPayload struct {
	Messages []dialogMessage `json:"messages"`
	Metrics  map[string]any  `json:"metrics,omitempty"`
}

type dialogMessage struct {
	Speaker     string      `json:"speaker"`
	Text        string      `json:"text"`
	Translation string      `json:"translation,omitempty"`
	Gaps        []dialogGap `json:"gaps,omitempty"`
}

type dialogGap struct {
	ID      string   `json:"id"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

// ChatDialogHandler generates gap-fill chat dialogs through the content
// provider, caching payloads by parameter fingerprint, and grades the
// filled gaps.
type ChatDialogHandler struct {
	logger   *slog.Logger
	selector *Selector
	provider generation.ContentProvider
	params   *mastery.Params

	now func() time.Time
}

// NewChatDialogHandler creates the handler.
// It panics if logger, selector, or provider is nil.
func NewChatDialogHandler(
	logger *slog.Logger,
	selector *Selector,
	provider generation.ContentProvider,
) *ChatDialogHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if selector == nil {
		panic("selector cannot be nil")
	}
	if provider == nil {
		panic("content provider cannot be nil")
	}
	return &ChatDialogHandler{
		logger:   logger.With(slog.String("component", "chat_dialog_handler")),
		selector: selector,
		provider: provider,
		params:   mastery.NewDefaultParams(),
		now:      time.Now,
	}
}

var _ Handler = (*ChatDialogHandler)(nil)

// Kind implements Handler.Kind
func (h *ChatDialogHandler) Kind() domain.TaskKind {
	return domain.TaskKindChatDialog
}

// Generate implements Handler.Generate
// Identical inputs reuse the cached payload instead of calling the
// provider again; the featured items still get fresh interaction
// records either way.
func (h *ChatDialogHandler) Generate(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (*domain.Task, *domain.TaskState, error) {
	messagesCount := req.MessagesCount
	if messagesCount <= 0 {
		messagesCount = defaultMessagesCount
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyIntermediate
	}
	if !difficulty.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, req.Difficulty)
	}

	words, terms, items, err := h.resolveItems(ctx, st, req)
	if err != nil {
		return nil, nil, err
	}

	fp := generation.FingerprintInput{
		TaskKind:   domain.TaskKindChatDialog,
		Words:      words,
		Terms:      terms,
		Difficulty: difficulty,
	}.Fingerprint()

	payload, err := h.loadOrGenerate(ctx, st, fp, map[string]any{
		"messages_count": messagesCount,
		"words":          words,
		"terms":          terms,
		"difficulty":     string(difficulty),
	})
	if err != nil {
		return nil, nil, err
	}

	content, correctAnswers, err := splitDialogPayload(payload, words, terms)
	if err != nil {
		return nil, nil, err
	}

	task := domain.NewTask(domain.TaskKindChatDialog)
	task.ChatDialog = content

	state := &domain.TaskState{
		TaskID:         task.ID,
		UserID:         req.UserID,
		Kind:           task.Kind,
		CreatedAt:      task.CreatedAt,
		Items:          items,
		CorrectAnswers: correctAnswers,
	}

	h.logger.DebugContext(ctx, "chat dialog task generated",
		slog.String("task_id", task.ID.String()),
		slog.Int("gap_count", len(correctAnswers)))
	return task, state, nil
}

// Validate implements Handler.Validate
// Every gap is graded by exact match against the generated answer; the
// dialog passes at 70% accuracy, and every featured item's mastery
// moves with the overall result.
func (h *ChatDialogHandler) Validate(
	ctx context.Context,
	st Stores,
	state *domain.TaskState,
	ans Answer,
) (*domain.Outcome, error) {
	if len(ans.Gaps) == 0 {
		return nil, fmt.Errorf("%w: gap answers are required", ErrValidation)
	}
	if len(state.CorrectAnswers) == 0 {
		return nil, fmt.Errorf("%w: task state is missing the reference answers", ErrValidation)
	}

	correctCount := 0
	for gapID, expected := range state.CorrectAnswers {
		if ans.Gaps[gapID] == expected {
			correctCount++
		}
	}

	total := len(state.CorrectAnswers)
	accuracy := float64(correctCount) / float64(total)
	successful := accuracy >= multiItemAccuracyGate

	now := h.now().UTC()
	for _, item := range state.Items {
		err := gradeItem(ctx, st, state.UserID, item,
			domain.TaskKindChatDialog, successful, accuracy, now, h.params)
		if err != nil {
			return nil, err
		}
	}

	return &domain.Outcome{
		TaskID:       state.TaskID,
		Kind:         domain.TaskKindChatDialog,
		IsSuccessful: successful,
		Score:        accuracy,
		CorrectCount: correctCount,
		TotalCount:   total,
	}, nil
}

// resolveItems returns the word and term texts for the prompt plus the
// catalog refs to track. Pinned texts missing from the catalog still go
// into the prompt, they just carry no mastery tracking.
func (h *ChatDialogHandler) resolveItems(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (words, terms []string, items []domain.ItemRef, err error) {
	if len(req.Words) == 0 && len(req.Terms) == 0 {
		selectedWords, err := h.selector.SelectWords(ctx, st, req.UserID, dialogWordsCount,
			store.WordFilters{Difficulty: req.Difficulty})
		if err != nil {
			return nil, nil, nil, err
		}
		selectedTerms, err := h.selector.SelectTerms(ctx, st, req.UserID, dialogTermsCount,
			store.TermFilters{Category: req.Category, Difficulty: req.Difficulty})
		if err != nil {
			return nil, nil, nil, err
		}
		if len(selectedWords) == 0 && len(selectedTerms) == 0 {
			return nil, nil, nil, fmt.Errorf("%w: no items available", ErrValidation)
		}

		for _, w := range selectedWords {
			words = append(words, w.Word)
			items = append(items, domain.ItemRef{ID: w.ID, Kind: domain.ItemKindWord})
		}
		for _, t := range selectedTerms {
			terms = append(terms, t.Term)
			items = append(items, domain.ItemRef{ID: t.ID, Kind: domain.ItemKindTerm})
		}
		return words, terms, items, nil
	}

	words = append(words, req.Words...)
	terms = append(terms, req.Terms...)

	for _, text := range req.Words {
		word, err := st.Words.GetByText(ctx, text)
		if err != nil {
			continue
		}
		ref := domain.ItemRef{ID: word.ID, Kind: domain.ItemKindWord}
		if err := h.selector.RecordInteraction(ctx, st, req.UserID, ref); err != nil {
			return nil, nil, nil, err
		}
		items = append(items, ref)
	}
	for _, text := range req.Terms {
		term, err := st.Terms.GetByText(ctx, text)
		if err != nil {
			continue
		}
		ref := domain.ItemRef{ID: term.ID, Kind: domain.ItemKindTerm}
		if err := h.selector.RecordInteraction(ctx, st, req.UserID, ref); err != nil {
			return nil, nil, nil, err
		}
		items = append(items, ref)
	}
	return words, terms, items, nil
}

// loadOrGenerate returns the cached payload for the fingerprint or
// calls the provider and caches the result.
func (h *ChatDialogHandler) loadOrGenerate(
	ctx context.Context,
	st Stores,
	fingerprint string,
	params map[string]any,
) (*dialogPayload, error) {
	cache := generation.NewCache(st.Generated, h.logger)

	if raw, err := cache.Lookup(ctx, fingerprint); err == nil {
		var payload dialogPayload
		if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Messages) > 0 {
			return &payload, nil
		}
		// A cached payload that no longer parses is treated as a miss.
		h.logger.WarnContext(ctx, "discarding unreadable cached dialog payload",
			slog.String("fingerprint", fingerprint))
	}

	result, err := h.provider.ExecutePrompt(ctx, "chat_dialog", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: unencodable provider payload: %v", ErrGeneration, err)
	}

	var payload dialogPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed dialog payload: %v", ErrGeneration, err)
	}
	if err := validateDialogPayload(&payload); err != nil {
		return nil, err
	}

	if err := cache.Store(ctx, domain.TaskKindChatDialog, fingerprint, raw); err != nil {
		return nil, err
	}
	return &payload, nil
}

// validateDialogPayload rejects provider output that cannot be graded.
func validateDialogPayload(payload *dialogPayload) error {
	if len(payload.Messages) == 0 {
		return fmt.Errorf("%w: dialog has no messages", ErrGeneration)
	}
	gapCount := 0
	seen := make(map[string]bool)
	for _, msg := range payload.Messages {
		for _, gap := range msg.Gaps {
			if gap.ID == "" || gap.Correct == "" || len(gap.Options) < 2 {
				return fmt.Errorf("%w: dialog gap is incomplete", ErrGeneration)
			}
			if seen[gap.ID] {
				return fmt.Errorf("%w: duplicate gap id %q", ErrGeneration, gap.ID)
			}
			seen[gap.ID] = true
			gapCount++
		}
	}
	if gapCount == 0 {
		return fmt.Errorf("%w: dialog has no gaps", ErrGeneration)
	}
	return nil
}

// splitDialogPayload converts the provider payload into client content
// with answers removed, plus the gap answer key for grading.
func splitDialogPayload(
	payload *dialogPayload,
	words, terms []string,
) (*domain.ChatDialogContent, map[string]string, error) {
	if err := validateDialogPayload(payload); err != nil {
		return nil, nil, err
	}

	content := &domain.ChatDialogContent{
		Messages:  make([]domain.DialogMessage, 0, len(payload.Messages)),
		UsedWords: words,
		UsedTerms: terms,
		Metrics:   payload.Metrics,
	}
	correctAnswers := make(map[string]string)

	for _, msg := range payload.Messages {
		out := domain.DialogMessage{
			Speaker:     msg.Speaker,
			Text:        msg.Text,
			Translation: msg.Translation,
		}
		for _, gap := range msg.Gaps {
			out.Gaps = append(out.Gaps, domain.DialogGap{
				ID:      gap.ID,
				Options: gap.Options,
			})
			correctAnswers[gap.ID] = gap.Correct
		}
		content.Messages = append(content.Messages, out)
	}
	return content, correctAnswers, nil
}
