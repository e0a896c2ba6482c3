package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment records file metadata only; the blob itself lives in external
// storage and is referenced by FileURL.
type Attachment struct {
	ID         uuid.UUID `json:"id"`
	TaskID     uuid.UUID `json:"task_id"`
	Filename   string    `json:"filename"`
	FileURL    string    `json:"file_url"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
