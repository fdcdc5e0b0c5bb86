package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when content generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate task content")

	// ErrEmptyResponse is returned when the LLM produces no usable text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrInvalidConfig is returned when the provider configuration is invalid
	ErrInvalidConfig = errors.New("invalid provider configuration")

	// ErrPromptNotFound is returned when no prompt template exists for the requested key
	ErrPromptNotFound = errors.New("prompt template not found")

	// ErrCacheMiss is returned by the cache when no payload exists for a fingerprint
	ErrCacheMiss = errors.New("no cached payload for fingerprint")
)
