package services

import (
	"errors"
	"fmt"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrShareNotFound      = errors.New("share not found")
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrMemberNotFound     = errors.New("member not found")

	// ErrAssigneeNotFound means a task payload named an assignee email that
	// matches no registered user.
	ErrAssigneeNotFound = errors.New("assigned user not found")

	ErrTitleRequired   = errors.New("title is required")
	ErrNameRequired    = errors.New("name is required")
	ErrTeamRequired    = errors.New("team id is required for smart assignment")
	ErrInvalidStrategy = errors.New("resolution strategy must be overwrite or merge")

	ErrNotTaskCreator      = errors.New("only the task creator can perform this action")
	ErrNotTeamCreator      = errors.New("only the team creator can perform this action")
	ErrNotTeamMember       = errors.New("you must be a member of this team")
	ErrCannotRemoveCreator = errors.New("the team creator cannot be removed")
	ErrCreatorCannotLeave  = errors.New("the team creator cannot leave the team")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// PermissionError is returned when a user's resolved permission level does not
// grant the attempted action. Held distinguishes "no access at all" from
// "access at a level too low for this action".
type PermissionError struct {
	Action permissions.Action
	Held   permissions.Level
}

func (e *PermissionError) Error() string {
	if e.Held == permissions.None {
		return "you do not have access to this task"
	}
	return fmt.Sprintf("you have %s access to this task and cannot %s it", e.Held, e.Action)
}

// ConflictError is returned when a task mutation loses a concurrency race. It
// carries the current server task so clients can render a resolution dialog.
type ConflictError struct {
	ServerTask    *models.Task
	ClientVersion int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("task was modified by another user (server version %d, submitted version %d)",
		e.ServerTask.Version, e.ClientVersion)
}
