// Package access decides whether an actor may perform an operation on a task or tag.
//
// Task rules: the creator, the current assignee and administrators may read and
// modify a task. Only the creator or an administrator may delete or restore it,
// and only administrators may approve a task that is pending review.
package access

import (
	"errors"
	"fmt"

	"github.com/chetarea/tarea-api/internal/domain"
)

// ErrForbidden is returned when the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

func forbidden(op string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, op)
}

// isParticipant reports whether the actor is the creator, assignee or an administrator.
func isParticipant(actor domain.Actor, task *domain.Task) bool {
	return actor.IsAdmin() || task.IsCreator(actor.UserID) || task.IsAssignee(actor.UserID)
}

// CanRead checks whether actor may see task.
func CanRead(actor domain.Actor, task *domain.Task) error {
	if !isParticipant(actor, task) {
		return forbidden("read task")
	}
	return nil
}

// CanMutate checks whether actor may modify task, its subtasks or its comments.
func CanMutate(actor domain.Actor, task *domain.Task) error {
	if !isParticipant(actor, task) {
		return forbidden("modify task")
	}
	return nil
}

// CanDelete checks whether actor may delete task. Assignees may not.
func CanDelete(actor domain.Actor, task *domain.Task) error {
	if !actor.IsAdmin() && !task.IsCreator(actor.UserID) {
		return forbidden("delete task")
	}
	return nil
}

// CanRestore checks whether actor may restore task. Assignees may not.
func CanRestore(actor domain.Actor, task *domain.Task) error {
	if !actor.IsAdmin() && !task.IsCreator(actor.UserID) {
		return forbidden("restore task")
	}
	return nil
}

// CanApprove checks whether actor may approve task. Only administrators may, and
// only while the task is pending review.
func CanApprove(actor domain.Actor, task *domain.Task) error {
	if !actor.IsAdmin() {
		return forbidden("approve task")
	}
	if task.Status != domain.TaskStatusPendingReview {
		return domain.ErrNotPendingReview
	}
	return nil
}

// CanReadTag checks whether actor may see tag. Default tags are visible to everyone.
func CanReadTag(actor domain.Actor, tag *domain.Tag) error {
	if actor.IsAdmin() || tag.IsDefault || tag.CreatedBy == actor.UserID {
		return nil
	}
	return forbidden("read tag")
}

// CanMutateTag checks whether actor may edit tag.
func CanMutateTag(actor domain.Actor, tag *domain.Tag) error {
	if actor.IsAdmin() || tag.CreatedBy == actor.UserID {
		return nil
	}
	return forbidden("modify tag")
}

// CanDeleteTag checks whether actor may delete tag. Default tags require an administrator.
func CanDeleteTag(actor domain.Actor, tag *domain.Tag) error {
	if tag.IsDefault && !actor.IsAdmin() {
		return forbidden("delete default tag")
	}
	return CanMutateTag(actor, tag)
}

// CanSetDefaultTag checks whether actor may mark tags as default.
func CanSetDefaultTag(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return forbidden("set default tag")
	}
	return nil
}
