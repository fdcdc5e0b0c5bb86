package gemini

import (
	"fmt"
	"strings"
	"text/template"
)

// Prompt template keys understood by the provider.
const (
	PromptChatDialog     = "chat_dialog"
	PromptEmailStructure = "email_structure"
)

// systemInstruction frames every model call. Individual prompts add the
// task-specific output schema on top.
const systemInstruction = `You are a content generator for an English vocabulary trainer aimed at
software developers practicing workplace communication. Always respond
with a single JSON object and nothing else: no markdown, no code fences,
no commentary. Use natural workplace English appropriate to the
requested difficulty level.`

const chatDialogPrompt = `Create a short workplace chat dialog between two colleagues, Alex and
Sam, for an English learner at {{.difficulty}} level.

Requirements:
- Exactly {{.messages_count}} messages from each speaker, alternating, Alex first.
- Naturally use these vocabulary words: {{join .words ", "}}.
{{- if .terms}}
- Naturally use these technical terms: {{join .terms ", "}}.
{{- end}}
- In each of Sam's messages, replace one of the target words or terms
  with a gap. Give every gap a unique id ("gap1", "gap2", ...) and
  exactly 4 options: the removed word plus 3 plausible distractors.
- Provide a Russian translation for every message.

Respond with a JSON object of this exact shape:
{
  "messages": [
    {
      "speaker": "Alex",
      "text": "...",
      "translation": "...",
      "gaps": [{"id": "gap1", "options": ["...", "...", "...", "..."], "correct": "..."}]
    }
  ],
  "metrics": {"estimated_cefr": "..."}
}
Messages without gaps omit the "gaps" field.`

const emailStructurePrompt = `Write a complete {{.style}} workplace email about "{{.topic}}" for an
English learner at {{.difficulty}} level.

Requirements:
- Naturally use these vocabulary words: {{join .words ", "}}.
{{- if .terms}}
- Naturally use these technical terms: {{join .terms ", "}}.
{{- end}}
- Split the email into its structural blocks in correct order:
  greeting, opening, main_body, closing, signature.
- Each block gets a "type" (one of the names above) and its "text".

Respond with a JSON object of this exact shape:
{
  "subject": "...",
  "blocks": [
    {"type": "greeting", "text": "..."},
    {"type": "opening", "text": "..."},
    {"type": "main_body", "text": "..."},
    {"type": "closing", "text": "..."},
    {"type": "signature", "text": "..."}
  ],
  "metrics": {"estimated_cefr": "..."}
}`

// parsePromptTemplates builds the provider's template set. Templates
// receive the handler's parameter map directly, so field names match
// the map keys.
func parsePromptTemplates() (map[string]*template.Template, error) {
	sources := map[string]string{
		PromptChatDialog:     chatDialogPrompt,
		PromptEmailStructure: emailStructurePrompt,
	}

	funcs := template.FuncMap{
		"join": func(v any, sep string) string {
			switch s := v.(type) {
			case []string:
				return strings.Join(s, sep)
			case []any:
				parts := make([]string, 0, len(s))
				for _, item := range s {
					parts = append(parts, fmt.Sprint(item))
				}
				return strings.Join(parts, sep)
			default:
				return fmt.Sprint(v)
			}
		},
	}

	templates := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt template %q: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
