package dto

import "github.com/google/uuid"

type ShareTaskRequest struct {
	TeamID      uuid.UUID `json:"team_id"`
	Permissions string    `json:"permissions"`
}

type UpdateSharePermissionsRequest struct {
	Permissions string `json:"permissions"`
}
