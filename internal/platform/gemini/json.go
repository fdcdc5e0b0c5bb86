package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppetrenko/techvocab-api/internal/generation"
)

var (
	trailingCommaObject = regexp.MustCompile(`,(\s*})`)
	trailingCommaArray  = regexp.MustCompile(`,(\s*])`)
)

// ExtractJSONObject parses the model's raw text output into a JSON
// object. The model frequently wraps its answer in markdown code fences
// and occasionally leaves trailing commas; both are stripped before
// parsing. Anything that is not a single JSON object after cleanup is
// rejected with generation.ErrInvalidResponse.
func ExtractJSONObject(raw string) (map[string]any, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, generation.ErrEmptyResponse
	}

	jsonStr, err := stripCodeFences(cleaned)
	if err != nil {
		return nil, err
	}

	jsonStr = trailingCommaObject.ReplaceAllString(jsonStr, "$1")
	jsonStr = trailingCommaArray.ReplaceAllString(jsonStr, "$1")

	var parsed any
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", generation.ErrInvalidResponse, err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: response is not a JSON object", generation.ErrInvalidResponse)
	}
	return obj, nil
}

// stripCodeFences extracts the payload from a ```json or ``` fenced
// block, or returns the input unchanged when no fence is present.
func stripCodeFences(s string) (string, error) {
	switch {
	case strings.Contains(s, "```json"):
		parts := strings.SplitN(s, "```json", 2)
		if len(parts) < 2 {
			return "", fmt.Errorf("%w: malformed JSON code block", generation.ErrInvalidResponse)
		}
		inner := strings.SplitN(parts[1], "```", 2)
		return strings.TrimSpace(inner[0]), nil
	case strings.Contains(s, "```"):
		parts := strings.Split(s, "```")
		if len(parts) < 3 {
			return "", fmt.Errorf("%w: malformed code block", generation.ErrInvalidResponse)
		}
		return strings.TrimSpace(parts[1]), nil
	default:
		return s, nil
	}
}
