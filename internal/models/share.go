package models

import (
	"time"

	"github.com/google/uuid"
)

// SharedTask grants every member of a team a bounded permission level on one
// task. A task is shared with a team at most once; re-sharing updates the
// existing record.
type SharedTask struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	TeamID      uuid.UUID `json:"team_id"`
	Permissions string    `json:"permissions"`
	SharedBy    uuid.UUID `json:"shared_by"`
	SharedAt    time.Time `json:"shared_at"`

	Team *Team `json:"team,omitempty"`
	Task *Task `json:"task,omitempty"`
}
