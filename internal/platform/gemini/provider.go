package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"google.golang.org/genai"

	"github.com/ppetrenko/techvocab-api/internal/config"
	"github.com/ppetrenko/techvocab-api/internal/generation"
)

// RequestLimiter gates outbound model calls. *ratelimit.Limiter
// satisfies this.
type RequestLimiter interface {
	Acquire(ctx context.Context, label string) error
}

// Provider implements generation.ContentProvider using the Gemini API.
type Provider struct {
	logger    *slog.Logger
	config    config.LLMConfig
	client    *genai.Client
	limiter   RequestLimiter
	templates map[string]*template.Template
}

var _ generation.ContentProvider = (*Provider)(nil)

// NewProvider creates a Provider with the given dependencies.
//
// Returns generation.ErrInvalidConfig when the API key or model name is
// missing, or an error if the Gemini client cannot be created.
func NewProvider(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	limiter RequestLimiter,
) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if limiter == nil {
		return nil, errors.New("request limiter cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	templates, err := parsePromptTemplates()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Provider{
		logger:    logger.With(slog.String("component", "gemini_provider")),
		config:    cfg,
		client:    client,
		limiter:   limiter,
		templates: templates,
	}, nil
}

// ExecutePrompt renders the named prompt template with params, waits on
// the rate limiter, calls the model, and parses the response into a
// JSON object. Every key a template references must be present in
// params; templates reject missing keys rather than rendering "<no
// value>" into the prompt.
func (p *Provider) ExecutePrompt(
	ctx context.Context,
	promptKey string,
	params map[string]any,
) (map[string]any, error) {
	prompt, err := p.renderPrompt(promptKey, params)
	if err != nil {
		return nil, err
	}

	if err := p.limiter.Acquire(ctx, promptKey); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	p.logger.DebugContext(ctx, "calling Gemini API",
		slog.String("prompt_key", promptKey),
		slog.String("model", p.config.ModelName),
		slog.Int("prompt_length", len(prompt)))

	resp, err := p.client.Models.GenerateContent(
		ctx,
		p.config.ModelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(p.config.Temperature),
			TopP:        genai.Ptr(p.config.TopP),
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemInstruction}},
			},
		},
	)
	if err != nil {
		p.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.String("prompt_key", promptKey),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	text := resp.Text()
	if text == "" {
		return nil, generation.ErrEmptyResponse
	}

	result, err := ExtractJSONObject(text)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to parse Gemini response",
			slog.String("prompt_key", promptKey),
			slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.DebugContext(ctx, "Gemini API call succeeded",
		slog.String("prompt_key", promptKey))
	return result, nil
}

// renderPrompt executes the named template against params.
func (p *Provider) renderPrompt(promptKey string, params map[string]any) (string, error) {
	tmpl, ok := p.templates[promptKey]
	if !ok {
		return "", fmt.Errorf("%w: %q", generation.ErrPromptNotFound, promptKey)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", promptKey, err)
	}
	return buf.String(), nil
}
