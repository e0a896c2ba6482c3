package dto

import (
	"github.com/dimitrije/taskhive-api/internal/models"
)

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type InviteMemberRequest struct {
	Email string `json:"email"`
}

type TeamDetailResponse struct {
	Team    *models.Team        `json:"team"`
	Members []models.TeamMember `json:"members"`
}
