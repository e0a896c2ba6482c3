package handlers

import (
	"context"
	"strconv"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ActionHandler struct {
	actionService ActionServiceInterface
}

func NewActionHandler(actionService ActionServiceInterface) *ActionHandler {
	return &ActionHandler{actionService: actionService}
}

func (h *ActionHandler) GetRecent(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.BadRequest("limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	actions, err := h.actionService.GetRecent(context.Background(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, actions)
}

func (h *ActionHandler) GetForTask(c *drift.Context) {
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

	actions, err := h.actionService.GetForTask(context.Background(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, actions)
}
