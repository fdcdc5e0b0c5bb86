package generation

import "context"

// ContentProvider generates structured task content from a named prompt
// template and its parameters. Implementations render the template,
// call the underlying model, and return the parsed JSON object.
//
// ExecutePrompt blocks until the model responds or ctx is done; callers
// should apply their own deadlines. Implementations must return
// ErrPromptNotFound for unknown keys, ErrEmptyResponse when the model
// produces no text, and ErrInvalidResponse when the text is not a JSON
// object.
type ContentProvider interface {
	ExecutePrompt(ctx context.Context, promptKey string, params map[string]any) (map[string]any, error)
}
