// Package lifecycle implements the task state transitions of the board.
//
// Every function is pure: it receives a task value, the requested change, the
// acting user and the current time, and returns a new task together with the
// history entries it appended. Nothing here touches storage, so callers decide
// when (and whether) to persist the result.
//
// The one piece of derived state is retention. Entering the done column stamps
// CompletedAt and schedules AutoDeleteAt one retention period later; leaving it
// clears both. Re-applying done to a task that is already done changes nothing,
// so retention always counts from the first completion.
package lifecycle
