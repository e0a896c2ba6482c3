package handlers

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SubtaskHandler struct {
	subtaskService SubtaskServiceInterface
}

func NewSubtaskHandler(subtaskService SubtaskServiceInterface) *SubtaskHandler {
	return &SubtaskHandler{subtaskService: subtaskService}
}

func (h *SubtaskHandler) Add(c *drift.Context) {
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

	var req dto.AddSubtaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	subtask, err := h.subtaskService.Add(context.Background(), userID, taskID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(201, subtask)
}

func (h *SubtaskHandler) List(c *drift.Context) {
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

	subtasks, err := h.subtaskService.List(context.Background(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, subtasks)
}

func (h *SubtaskHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	subtaskID, err := uuid.Parse(c.Param("subtaskId"))
	if err != nil {
		c.BadRequest("invalid subtask id")
		return
	}

	var req dto.UpdateSubtaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	subtask, err := h.subtaskService.Update(context.Background(), userID, subtaskID, req.Title, req.Done)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, subtask)
}

func (h *SubtaskHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	subtaskID, err := uuid.Parse(c.Param("subtaskId"))
	if err != nil {
		c.BadRequest("invalid subtask id")
		return
	}

	if err := h.subtaskService.Delete(context.Background(), userID, subtaskID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "subtask deleted"})
}
