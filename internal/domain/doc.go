// Package domain contains the core entities of the task board: tasks with their
// subtasks, comments and audit history, users and tags.
//
// Entities validate themselves; state transitions that derive timestamps or
// history live in the lifecycle subpackage and authorization rules in the
// access subpackage, so that both stay pure and independently testable.
package domain
