package models

import (
	"time"

	"github.com/google/uuid"
)

type Subtask struct {
	ID         uuid.UUID `json:"id"`
	ParentTask uuid.UUID `json:"parent_task"`
	Title      string    `json:"title"`
	Done       bool      `json:"done"`
	CreatedBy  uuid.UUID `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
