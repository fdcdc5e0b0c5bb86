package gemini

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderTemplate(t *testing.T, key string, params map[string]any) string {
	t.Helper()

	templates, err := parsePromptTemplates()
	require.NoError(t, err)
	tmpl, ok := templates[key]
	require.True(t, ok, "template %q should exist", key)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, params))
	return buf.String()
}

func TestChatDialogPromptRendering(t *testing.T) {
	t.Parallel()

	prompt := renderTemplate(t, PromptChatDialog, map[string]any{
		"messages_count": 3,
		"words":          []string{"deploy", "rollback"},
		"terms":          []string{"CI pipeline"},
		"difficulty":     "intermediate",
	})

	assert.Contains(t, prompt, "intermediate")
	assert.Contains(t, prompt, "Exactly 3 messages")
	assert.Contains(t, prompt, "deploy, rollback")
	assert.Contains(t, prompt, "CI pipeline")
}

func TestChatDialogPromptOmitsEmptyTerms(t *testing.T) {
	t.Parallel()

	prompt := renderTemplate(t, PromptChatDialog, map[string]any{
		"messages_count": 2,
		"words":          []string{"deploy"},
		"terms":          []string{},
		"difficulty":     "basic",
	})

	assert.NotContains(t, prompt, "technical terms")
}

func TestEmailStructurePromptRendering(t *testing.T) {
	t.Parallel()

	prompt := renderTemplate(t, PromptEmailStructure, map[string]any{
		"style":      "formal",
		"topic":      "meeting",
		"difficulty": "advanced",
		"words":      []string{"schedule", "agenda"},
		"terms":      []string{"sprint review"},
	})

	assert.Contains(t, prompt, "formal")
	assert.Contains(t, prompt, `"meeting"`)
	assert.Contains(t, prompt, "schedule, agenda")
	assert.Contains(t, prompt, "sprint review")
	assert.Contains(t, prompt, "greeting, opening, main_body, closing, signature")
}

func TestPromptRejectsMissingKeys(t *testing.T) {
	t.Parallel()

	templates, err := parsePromptTemplates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = templates[PromptChatDialog].Execute(&buf, map[string]any{
		"words":      []string{"deploy"},
		"difficulty": "basic",
	})
	assert.Error(t, err)
}
