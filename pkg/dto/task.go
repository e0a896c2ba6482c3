package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/dimitrije/taskhive-api/internal/models"
)

type CreateTaskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	AssigneeEmail *string    `json:"assignee_email,omitempty"`
}

// UpdateTaskRequest is a partial task payload. Pointer fields distinguish
// "absent" from "set to zero"; version and last_modified drive conflict
// detection.
type UpdateTaskRequest = models.TaskPatch

type AssignTaskRequest struct {
	AssigneeEmail string `json:"assignee_email"`
}

type SmartAssignRequest struct {
	TeamID *uuid.UUID `json:"team_id"`
}

// SmartAssignResponse pairs the reassigned task with a human-readable note
// explaining the pick (lowest active count, or fallback to the requester).
type SmartAssignResponse struct {
	Task *models.Task `json:"task"`
	Note string       `json:"note"`
}

type ResolveConflictRequest struct {
	Strategy string           `json:"strategy"`
	Task     models.TaskPatch `json:"task"`
}
