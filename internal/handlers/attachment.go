package handlers

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AttachmentHandler struct {
	attachmentService AttachmentServiceInterface
}

func NewAttachmentHandler(attachmentService AttachmentServiceInterface) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

func (h *AttachmentHandler) Add(c *drift.Context) {
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

	var req dto.AddAttachmentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	attachment, err := h.attachmentService.Add(context.Background(), userID, taskID, req.Filename, req.FileURL)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(201, attachment)
}

func (h *AttachmentHandler) List(c *drift.Context) {
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

	attachments, err := h.attachmentService.List(context.Background(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, attachments)
}

func (h *AttachmentHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		c.BadRequest("invalid attachment id")
		return
	}

	if err := h.attachmentService.Delete(context.Background(), userID, attachmentID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "attachment deleted"})
}
