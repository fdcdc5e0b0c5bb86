// Package tasks implements the practice task handlers: one handler per
// task kind, each generating content for a task and grading submitted
// answers. Handlers share the item selector that biases practice toward
// new and weak vocabulary, and the mastery update that turns a graded
// answer into per-item record changes.
//
// Handlers are pure over their inputs: they receive transaction-bound
// stores from the calling service and never manage transactions or the
// expiring task state themselves.
package tasks
