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

type SubtaskService struct {
	tasks    TaskStore
	subtasks SubtaskStore
	auth     *Authorizer
	actions  *ActionService
	notify   Notifier
}

func NewSubtaskService(tasks TaskStore, subtasks SubtaskStore, auth *Authorizer, actions *ActionService, notify Notifier) *SubtaskService {
	return &SubtaskService{tasks: tasks, subtasks: subtasks, auth: auth, actions: actions, notify: notify}
}

func (s *SubtaskService) requireOnParent(ctx context.Context, userID, taskID uuid.UUID, action permissions.Action) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if _, _, err := s.auth.Require(ctx, task, userID, action); err != nil {
		return nil, err
	}
	return task, nil
}

// mutationAction returns the permission needed to change an item: edit access
// covers your own items, touching someone else's takes full access.
func mutationAction(createdBy, userID uuid.UUID) permissions.Action {
	if createdBy == userID {
		return permissions.ActionEdit
	}
	return permissions.ActionDelete
}

func (s *SubtaskService) Add(ctx context.Context, userID, taskID uuid.UUID, title string) (*models.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if _, err := s.requireOnParent(ctx, userID, taskID, permissions.ActionEdit); err != nil {
		return nil, err
	}

	subtask, err := s.subtasks.Create(ctx, taskID, title, userID)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("subtaskAdded", subtask)
	s.actions.LogAndEmit(ctx, userID, &taskID, "subtask_added", map[string]any{"title": title})
	return subtask, nil
}

func (s *SubtaskService) Update(ctx context.Context, userID, subtaskID uuid.UUID, title string, done bool) (*models.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	subtask, err := s.subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, err
	}
	if _, err := s.requireOnParent(ctx, userID, subtask.ParentTask, mutationAction(subtask.CreatedBy, userID)); err != nil {
		return nil, err
	}

	updated, err := s.subtasks.Update(ctx, subtaskID, title, done)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, err
	}

	s.notify.Emit("subtaskUpdated", updated)
	s.actions.LogAndEmit(ctx, userID, &subtask.ParentTask, "subtask_updated", map[string]any{
		"subtaskId": subtaskID,
		"done":      done,
	})
	return updated, nil
}

func (s *SubtaskService) Delete(ctx context.Context, userID, subtaskID uuid.UUID) error {
	subtask, err := s.subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSubtaskNotFound
		}
		return err
	}
	if _, err := s.requireOnParent(ctx, userID, subtask.ParentTask, mutationAction(subtask.CreatedBy, userID)); err != nil {
		return err
	}

	if err := s.subtasks.Delete(ctx, subtaskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSubtaskNotFound
		}
		return err
	}

	s.notify.Emit("subtaskDeleted", map[string]any{"subtaskId": subtaskID, "taskId": subtask.ParentTask})
	s.actions.LogAndEmit(ctx, userID, &subtask.ParentTask, "subtask_deleted", map[string]any{"subtaskId": subtaskID})
	return nil
}

func (s *SubtaskService) List(ctx context.Context, userID, taskID uuid.UUID) ([]models.Subtask, error) {
	if _, err := s.requireOnParent(ctx, userID, taskID, permissions.ActionView); err != nil {
		return nil, err
	}
	return s.subtasks.GetForTask(ctx, taskID)
}
