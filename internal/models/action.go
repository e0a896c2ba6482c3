package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action is one audit-log entry. TaskID is nil for team-level actions.
type Action struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	TaskID     *uuid.UUID      `json:"task_id,omitempty"`
	ActionType string          `json:"action_type"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
	User       *User           `json:"user,omitempty"`
}
