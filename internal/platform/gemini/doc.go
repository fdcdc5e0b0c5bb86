// Package gemini implements the generation.ContentProvider interface
// using Google's Gemini API. It renders named prompt templates into
// model requests, applies the client-side rate limit before every call,
// and parses the model's text output into JSON objects, tolerating the
// markdown code fences and trailing commas Gemini is prone to emit.
package gemini
