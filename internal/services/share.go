package services

import (
	"context"
	"errors"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
)

// ShareService manages team shares of a task. Only the task creator may
// change how a task is shared; members see shared tasks through TaskService.
type ShareService struct {
	tasks   TaskStore
	teams   TeamStore
	shares  ShareStore
	actions *ActionService
	notify  Notifier
}

func NewShareService(tasks TaskStore, teams TeamStore, shares ShareStore, actions *ActionService, notify Notifier) *ShareService {
	return &ShareService{tasks: tasks, teams: teams, shares: shares, actions: actions, notify: notify}
}

func (s *ShareService) loadOwnedTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.CreatedBy != userID {
		return nil, ErrNotTaskCreator
	}
	return task, nil
}

// ShareWithTeam shares the task with a team at the given level, defaulting to
// edit. Sharing again with the same team updates the level in place.
func (s *ShareService) ShareWithTeam(ctx context.Context, userID, taskID, teamID uuid.UUID, permission string) (*models.SharedTask, error) {
	if permission == "" {
		permission = "edit"
	}
	if _, err := permissions.ParseShareLevel(permission); err != nil {
		return nil, err
	}

	if _, err := s.loadOwnedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	isMember, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotTeamMember
	}

	share, err := s.shares.Upsert(ctx, taskID, teamID, userID, permission)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("taskShared", map[string]any{
		"taskId":      taskID,
		"teamId":      teamID,
		"permissions": permission,
		"sharedBy":    userID,
	})
	s.actions.LogAndEmit(ctx, userID, &taskID, "shared_with_team", map[string]any{
		"teamId":      teamID,
		"permissions": permission,
	})
	return share, nil
}

func (s *ShareService) Unshare(ctx context.Context, userID, taskID, teamID uuid.UUID) error {
	if _, err := s.loadOwnedTask(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.shares.Delete(ctx, taskID, teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrShareNotFound
		}
		return err
	}

	s.notify.Emit("taskUnshared", map[string]any{"taskId": taskID, "teamId": teamID})
	s.actions.LogAndEmit(ctx, userID, &taskID, "unshared_from_team", map[string]any{"teamId": teamID})
	return nil
}

func (s *ShareService) UpdatePermissions(ctx context.Context, userID, taskID, teamID uuid.UUID, permission string) (*models.SharedTask, error) {
	if _, err := permissions.ParseShareLevel(permission); err != nil {
		return nil, err
	}
	if _, err := s.loadOwnedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	share, err := s.shares.UpdatePermissions(ctx, taskID, teamID, permission)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}

	s.notify.Emit("taskPermissionsUpdated", map[string]any{
		"taskId":      taskID,
		"teamId":      teamID,
		"permissions": permission,
	})
	s.actions.LogAndEmit(ctx, userID, &taskID, "permissions_updated", map[string]any{
		"teamId":      teamID,
		"permissions": permission,
	})
	return share, nil
}

// GetTeamTasks lists every task shared with the team, member-only.
func (s *ShareService) GetTeamTasks(ctx context.Context, userID, teamID uuid.UUID) ([]models.Task, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	isMember, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotTeamMember
	}

	ids, err := s.shares.GetTaskIDsForTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.tasks.FindByIDs(ctx, ids)
}

// GetTaskTeams lists the task's share records, creator-only.
func (s *ShareService) GetTaskTeams(ctx context.Context, userID, taskID uuid.UUID) ([]models.SharedTask, error) {
	if _, err := s.loadOwnedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.shares.GetSharesForTask(ctx, taskID)
}
