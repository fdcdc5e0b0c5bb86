// Package domain defines the core business entities of the adaptive
// vocabulary practice engine: the word/term catalog, per-user mastery
// records, learning attempts, and the task/outcome structures exchanged
// with callers. Entities validate themselves; persistence and grading
// logic live elsewhere.
package domain
