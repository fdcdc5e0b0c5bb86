package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppetrenko/techvocab-api/internal/api/shared"
	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/tasks"
)

// fakeTaskService records the calls the handler makes and returns
// canned results.
type fakeTaskService struct {
	generateResult *domain.Task
	generateErr    error
	validateResult *domain.Outcome
	validateErr    error

	lastKind    domain.TaskKind
	lastRequest tasks.GenerateRequest
	lastAnswer  tasks.Answer
}

func (f *fakeTaskService) GenerateTask(
	ctx context.Context,
	kind domain.TaskKind,
	req tasks.GenerateRequest,
) (*domain.Task, error) {
	f.lastKind = kind
	f.lastRequest = req
	return f.generateResult, f.generateErr
}

func (f *fakeTaskService) ValidateTask(
	ctx context.Context,
	kind domain.TaskKind,
	ans tasks.Answer,
) (*domain.Outcome, error) {
	f.lastKind = kind
	f.lastAnswer = ans
	return f.validateResult, f.validateErr
}

// newTaskRouter mounts the handler behind the routes it serves in
// production, with the given user injected into the request context.
func newTaskRouter(svc TaskService, userID uuid.UUID) http.Handler {
	h := NewTaskHandler(svc, slog.Default())

	r := chi.NewRouter()
	if userID != uuid.Nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}
	r.Post("/tasks/generate/{kind}", h.GenerateTask)
	r.Post("/tasks/validate/{kind}", h.ValidateTask)
	return r
}

func TestGenerateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task := domain.NewTask(domain.TaskKindWordTranslation)
	svc := &fakeTaskService{generateResult: task}

	body := bytes.NewBufferString(`{"difficulty":"intermediate","word_type":"noun"}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks/generate/word_translation", body)
	rec := httptest.NewRecorder()

	newTaskRouter(svc, userID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TaskKindWordTranslation, svc.lastKind)
	assert.Equal(t, userID, svc.lastRequest.UserID)
	assert.Equal(t, domain.DifficultyIntermediate, svc.lastRequest.Difficulty)
	assert.Equal(t, domain.WordTypeNoun, svc.lastRequest.WordType)

	var got domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, task.ID, got.ID)
}

func TestGenerateTaskAllowsEmptyBody(t *testing.T) {
	t.Parallel()

	svc := &fakeTaskService{generateResult: domain.NewTask(domain.TaskKindWordMatching)}

	req := httptest.NewRequest(http.MethodPost, "/tasks/generate/word_matching", nil)
	rec := httptest.NewRecorder()

	newTaskRouter(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TaskKindWordMatching, svc.lastKind)
}

func TestGenerateTaskFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		body       string
		userID     uuid.UUID
		serviceErr error
		wantStatus int
	}{
		{
			name:       "unknown kind",
			path:       "/tasks/generate/charades",
			userID:     uuid.New(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing user in context",
			path:       "/tasks/generate/word_translation",
			userID:     uuid.Nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			path:       "/tasks/generate/word_translation",
			body:       `{"difficulty":`,
			userID:     uuid.New(),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported difficulty",
			path:       "/tasks/generate/word_translation",
			body:       `{"difficulty":"impossible"}`,
			userID:     uuid.New(),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "provider failure",
			path:       "/tasks/generate/chat_dialog",
			userID:     uuid.New(),
			serviceErr: fmt.Errorf("model call: %w", tasks.ErrGeneration),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "empty catalog",
			path:       "/tasks/generate/word_translation",
			userID:     uuid.New(),
			serviceErr: fmt.Errorf("no words available: %w", tasks.ErrValidation),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeTaskService{
				generateResult: domain.NewTask(domain.TaskKindWordTranslation),
				generateErr:    tc.serviceErr,
			}

			var body *bytes.Buffer
			if tc.body != "" {
				body = bytes.NewBufferString(tc.body)
			} else {
				body = &bytes.Buffer{}
			}
			req := httptest.NewRequest(http.MethodPost, tc.path, body)
			rec := httptest.NewRecorder()

			newTaskRouter(svc, tc.userID).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestValidateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()
	outcome := &domain.Outcome{
		TaskID:       taskID,
		Kind:         domain.TaskKindTermDefinition,
		IsSuccessful: true,
		Score:        1.0,
		CorrectCount: 1,
		TotalCount:   1,
	}
	svc := &fakeTaskService{validateResult: outcome}

	termID := uuid.New()
	payload := fmt.Sprintf(`{"task_id":%q,"term_id":%q}`, taskID, termID)
	req := httptest.NewRequest(http.MethodPost, "/tasks/validate/term_definition", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	newTaskRouter(svc, userID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TaskKindTermDefinition, svc.lastKind)
	assert.Equal(t, taskID, svc.lastAnswer.TaskID)
	assert.Equal(t, userID, svc.lastAnswer.UserID)
	assert.Equal(t, termID, svc.lastAnswer.TermID)

	var got domain.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.IsSuccessful)
}

func TestValidateTaskFailures(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "missing body",
			body:       "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing task id",
			body:       `{"answer":"deployment"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "state expired",
			body:       fmt.Sprintf(`{"task_id":%q,"answer":"deployment"}`, taskID),
			serviceErr: fmt.Errorf("load state: %w", tasks.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeTaskService{validateErr: tc.serviceErr}

			req := httptest.NewRequest(
				http.MethodPost,
				"/tasks/validate/word_translation",
				bytes.NewBufferString(tc.body),
			)
			rec := httptest.NewRecorder()

			newTaskRouter(svc, uuid.New()).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
