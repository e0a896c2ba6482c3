package handlers

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type CommentHandler struct {
	commentService CommentServiceInterface
}

func NewCommentHandler(commentService CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Add(c *drift.Context) {
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

	var req dto.AddCommentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	comment, err := h.commentService.Add(context.Background(), userID, taskID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(201, comment)
}

func (h *CommentHandler) List(c *drift.Context) {
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

	comments, err := h.commentService.List(context.Background(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, comments)
}

func (h *CommentHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		c.BadRequest("invalid comment id")
		return
	}

	if err := h.commentService.Delete(context.Background(), userID, commentID); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "comment deleted"})
}
