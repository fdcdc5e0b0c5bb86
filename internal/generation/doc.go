// Package generation provides interfaces and supporting types for
// interacting with external AI/LLM services for content generation. It
// abstracts the details of LLM API integration (Gemini), allowing task
// handlers to generate dialog and email exercises without coupling to a
// specific external service, and provides fingerprint-based caching of
// generated payloads.
package generation
