package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
)

var ErrCommentBodyRequired = errors.New("comment body is required")

type CommentService struct {
	tasks    TaskStore
	comments CommentStore
	auth     *Authorizer
	actions  *ActionService
	notify   Notifier
}

func NewCommentService(tasks TaskStore, comments CommentStore, auth *Authorizer, actions *ActionService, notify Notifier) *CommentService {
	return &CommentService{tasks: tasks, comments: comments, auth: auth, actions: actions, notify: notify}
}

func (s *CommentService) requireOnTask(ctx context.Context, userID, taskID uuid.UUID, action permissions.Action) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	_, _, err = s.auth.Require(ctx, task, userID, action)
	return err
}

func (s *CommentService) Add(ctx context.Context, userID, taskID uuid.UUID, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrCommentBodyRequired
	}
	if err := s.requireOnTask(ctx, userID, taskID, permissions.ActionEdit); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, taskID, userID, body)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("commentAdded", comment)
	s.actions.LogAndEmit(ctx, userID, &taskID, "comment_added", map[string]any{"commentId": comment.ID})
	return comment, nil
}

func (s *CommentService) List(ctx context.Context, userID, taskID uuid.UUID) ([]models.Comment, error) {
	if err := s.requireOnTask(ctx, userID, taskID, permissions.ActionView); err != nil {
		return nil, err
	}
	return s.comments.GetForTask(ctx, taskID)
}

func (s *CommentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if err := s.requireOnTask(ctx, userID, comment.TaskID, mutationAction(comment.UserID, userID)); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	s.notify.Emit("commentDeleted", map[string]any{"commentId": commentID, "taskId": comment.TaskID})
	s.actions.LogAndEmit(ctx, userID, &comment.TaskID, "comment_deleted", map[string]any{"commentId": commentID})
	return nil
}
