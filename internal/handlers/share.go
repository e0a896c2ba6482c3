package handlers

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ShareHandler struct {
	shareService ShareServiceInterface
}

func NewShareHandler(shareService ShareServiceInterface) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

func (h *ShareHandler) ShareTask(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	var req dto.ShareTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.TeamID == uuid.Nil {
		c.BadRequest("team_id is required")
		return
	}

	share, err := h.shareService.ShareWithTeam(context.Background(), userID, taskID, req.TeamID, req.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(201, share)
}

func (h *ShareHandler) Unshare(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.shareService.Unshare(context.Background(), userID, taskID, teamID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "task unshared"})
}

func (h *ShareHandler) UpdatePermissions(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	var req dto.UpdateSharePermissionsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	share, err := h.shareService.UpdatePermissions(context.Background(), userID, taskID, teamID, req.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, share)
}

func (h *ShareHandler) GetTaskTeams(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	shares, err := h.shareService.GetTaskTeams(context.Background(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, shares)
}

func (h *ShareHandler) GetTeamTasks(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("teamId"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	tasks, err := h.shareService.GetTeamTasks(context.Background(), userID, teamID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, tasks)
}
