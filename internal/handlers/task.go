package handlers

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TaskHandler struct {
	taskService TaskServiceInterface
}

func NewTaskHandler(taskService TaskServiceInterface) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.taskService.Create(context.Background(), userID, services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssigneeEmail: req.AssigneeEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(201, task)
}

func (h *TaskHandler) Get(c *drift.Context) {
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

	task, err := h.taskService.Get(context.Background(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, task)
}

func (h *TaskHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	tasks, err := h.taskService.List(context.Background(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, tasks)
}

func (h *TaskHandler) Update(c *drift.Context) {
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

	var req dto.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.taskService.Update(context.Background(), userID, taskID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, task)
}

func (h *TaskHandler) Delete(c *drift.Context) {
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

	if err := h.taskService.Delete(context.Background(), userID, taskID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "task deleted"})
}

func (h *TaskHandler) Assign(c *drift.Context) {
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

	var req dto.AssignTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.taskService.Assign(context.Background(), userID, taskID, req.AssigneeEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, task)
}

func (h *TaskHandler) SmartAssign(c *drift.Context) {
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

	var req dto.SmartAssignRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, note, err := h.taskService.SmartAssign(context.Background(), userID, taskID, req.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, dto.SmartAssignResponse{Task: task, Note: note})
}

func (h *TaskHandler) ResolveConflict(c *drift.Context) {
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

	var req dto.ResolveConflictRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.taskService.ResolveConflict(context.Background(), userID, taskID, req.Strategy, req.Task)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, task)
}

func (h *TaskHandler) Search(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	filter := store.TaskFilter{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Query:    c.QueryParam("q"),
	}

	if assignee := c.QueryParam("assigned_to"); assignee != "" {
		id, err := uuid.Parse(assignee)
		if err != nil {
			c.BadRequest("invalid assigned_to id")
			return
		}
		filter.AssignedUser = &id
	}

	tasks, err := h.taskService.Search(context.Background(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, tasks)
}
