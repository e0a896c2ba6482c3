package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	AssignedUser *uuid.UUID `json:"assigned_user,omitempty"`
	Version      int        `json:"version"`
	LastModified time.Time  `json:"last_modified"`
	UpdatedBy    *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// SharedWith is populated on reads, not stored on the task row.
	SharedWith []SharedTask `json:"shared_with,omitempty"`
}

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// IsOwnedBy reports whether userID is the task creator or its assigned user.
func (t *Task) IsOwnedBy(userID uuid.UUID) bool {
	if t.CreatedBy == userID {
		return true
	}
	return t.AssignedUser != nil && *t.AssignedUser == userID
}

// TaskPatch carries the client-controlled task fields of a mutation. Nil
// pointers mean "field absent from the payload"; AssigneeEmail follows the
// resolve-by-email rule (empty string unassigns).
type TaskPatch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	AssigneeEmail *string    `json:"assignee_email,omitempty"`
	Version       *int       `json:"version,omitempty"`
	LastModified  *time.Time `json:"last_modified,omitempty"`
}
