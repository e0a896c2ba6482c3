package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
)

type TaskService struct {
	tasks   TaskStore
	users   UserStore
	teams   TeamStore
	shares  ShareStore
	auth    *Authorizer
	actions *ActionService
	notify  Notifier
}

func NewTaskService(tasks TaskStore, users UserStore, teams TeamStore, shares ShareStore, auth *Authorizer, actions *ActionService, notify Notifier) *TaskService {
	return &TaskService{
		tasks:   tasks,
		users:   users,
		teams:   teams,
		shares:  shares,
		auth:    auth,
		actions: actions,
		notify:  notify,
	}
}

type CreateTaskInput struct {
	Title         string
	Description   string
	Status        string
	Priority      string
	DueDate       *time.Time
	AssigneeEmail *string
}

// resolveAssignee maps an assignee email to a user id. Empty means
// unassigned; an email that matches no user is an error, never a silent skip.
func (s *TaskService) resolveAssignee(ctx context.Context, email string) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}
	return &user.ID, nil
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = "medium"
	}

	var assignee *uuid.UUID
	if input.AssigneeEmail != nil {
		var err error
		assignee, err = s.resolveAssignee(ctx, *input.AssigneeEmail)
		if err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.Create(ctx, &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		CreatedBy:    userID,
		AssignedUser: assignee,
	})
	if err != nil {
		return nil, err
	}

	s.notify.Emit("taskCreated", task)
	s.actions.LogAndEmit(ctx, userID, &task.ID, "created", map[string]any{"title": task.Title})
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	_, shares, err := s.auth.Require(ctx, task, userID, permissions.ActionView)
	if err != nil {
		return nil, err
	}
	task.SharedWith = shares
	return task, nil
}

// List returns the user's personal tasks plus every task shared with a team
// the user belongs to, deduplicated, with share records attached.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	personal, err := s.tasks.FindPersonal(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(personal))
	for _, t := range personal {
		seen[t.ID] = true
	}

	sharedIDs, err := s.sharedTaskIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	var extra []uuid.UUID
	for _, id := range sharedIDs {
		if !seen[id] {
			seen[id] = true
			extra = append(extra, id)
		}
	}

	shared, err := s.tasks.FindByIDs(ctx, extra)
	if err != nil {
		return nil, err
	}

	tasks := append(personal, shared...)
	for i := range tasks {
		shares, err := s.shares.GetSharesForTask(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].SharedWith = shares
	}
	return tasks, nil
}

func (s *TaskService) sharedTaskIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	teams, err := s.teams.GetTeamsForMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, team := range teams {
		taskIDs, err := s.shares.GetTaskIDsForTeam(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, taskIDs...)
	}
	return ids, nil
}

// Update applies a partial task mutation with optimistic concurrency. A
// payload carrying a version older than the server's loses immediately; a
// versionless payload falls back to the last-modified timestamp, conflicting
// only when someone else wrote in between.
func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if _, _, err := s.auth.Require(ctx, current, userID, permissions.ActionEdit); err != nil {
		return nil, err
	}

	if conflict := detectConflict(current, userID, patch); conflict != nil {
		s.emitConflict(conflict)
		return nil, conflict
	}

	next := *current
	if err := s.applyPatch(ctx, &next, patch, false); err != nil {
		return nil, err
	}
	next.UpdatedBy = &userID

	updated, err := s.writeVersioned(ctx, taskID, current.Version, &next)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("taskUpdated", updated)
	s.actions.LogAndEmit(ctx, userID, &updated.ID, "updated", map[string]any{
		"title":   updated.Title,
		"version": updated.Version,
	})
	return updated, nil
}

// detectConflict implements the stale-write check against the loaded task.
func detectConflict(current *models.Task, userID uuid.UUID, patch models.TaskPatch) *ConflictError {
	if patch.Version != nil {
		if *patch.Version < current.Version {
			return &ConflictError{ServerTask: current, ClientVersion: *patch.Version}
		}
		return nil
	}
	if patch.LastModified != nil &&
		patch.LastModified.Before(current.LastModified) &&
		current.UpdatedBy != nil && *current.UpdatedBy != userID {
		return &ConflictError{ServerTask: current, ClientVersion: current.Version}
	}
	return nil
}

func (s *TaskService) emitConflict(conflict *ConflictError) {
	s.notify.Emit("taskConflict", map[string]any{
		"taskId":        conflict.ServerTask.ID,
		"serverTask":    conflict.ServerTask,
		"clientVersion": conflict.ClientVersion,
	})
}

// applyPatch copies the patch's fields onto the task. In merge mode absent
// fields keep their server values; in overwrite mode the patch replaces every
// client-controlled field. Ownership fields are never touched.
func (s *TaskService) applyPatch(ctx context.Context, task *models.Task, patch models.TaskPatch, overwrite bool) error {
	if patch.Title != nil {
		task.Title = *patch.Title
	} else if overwrite {
		task.Title = ""
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	} else if overwrite {
		task.Description = ""
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	} else if overwrite {
		task.Status = models.TaskStatusTodo
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	} else if overwrite {
		task.Priority = "medium"
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	} else if overwrite {
		task.DueDate = nil
	}
	if patch.AssigneeEmail != nil {
		assignee, err := s.resolveAssignee(ctx, *patch.AssigneeEmail)
		if err != nil {
			return err
		}
		task.AssignedUser = assignee
	} else if overwrite {
		task.AssignedUser = nil
	}
	if task.Title == "" {
		return ErrTitleRequired
	}
	return nil
}

// writeVersioned performs the compare-and-swap write and converts a lost swap
// into a ConflictError carrying the fresh server task.
func (s *TaskService) writeVersioned(ctx context.Context, taskID uuid.UUID, expectedVersion int, next *models.Task) (*models.Task, error) {
	updated, err := s.tasks.UpdateVersioned(ctx, taskID, expectedVersion, next)
	if err == nil {
		return updated, nil
	}
	if errors.Is(err, store.ErrStaleVersion) {
		fresh, ferr := s.tasks.GetByID(ctx, taskID)
		if ferr != nil {
			return nil, ferr
		}
		conflict := &ConflictError{ServerTask: fresh, ClientVersion: expectedVersion}
		s.emitConflict(conflict)
		return nil, conflict
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return nil, err
}

// Delete removes a task. Owners always may; otherwise only a full share
// grants deletion, and the error names the level the user actually holds.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if _, _, err := s.auth.Require(ctx, task, userID, permissions.ActionDelete); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.notify.Emit("taskDeleted", map[string]any{"taskId": taskID, "deletedBy": userID})
	s.actions.LogAndEmit(ctx, userID, &taskID, "deleted", map[string]any{"title": task.Title})
	return nil
}

// Assign sets the assignee directly. Only an owner (creator or current
// assignee) may hand a task over.
func (s *TaskService) Assign(ctx context.Context, userID, taskID uuid.UUID, assigneeEmail string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	level, _, err := s.auth.LevelFor(ctx, task, userID)
	if err != nil {
		return nil, err
	}
	if level != permissions.Owner {
		return nil, &PermissionError{Action: permissions.ActionEdit, Held: level}
	}

	assignee, err := s.resolveAssignee(ctx, assigneeEmail)
	if err != nil {
		return nil, err
	}

	next := *task
	next.AssignedUser = assignee
	next.UpdatedBy = &userID

	updated, err := s.writeVersioned(ctx, taskID, task.Version, &next)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("taskAssigned", map[string]any{
		"taskId":     updated.ID,
		"assignedTo": updated.AssignedUser,
		"assignedBy": userID,
	})
	s.notify.Emit("taskUpdated", updated)
	s.actions.LogAndEmit(ctx, userID, &updated.ID, "assigned", map[string]any{
		"assignedTo": updated.AssignedUser,
	})
	return updated, nil
}

// SmartAssign picks the team member with the fewest active tasks and assigns
// the task to them. The requester is excluded from the candidate pool; with
// no other members the task falls back to the requester. All validation runs
// before any write. The returned note tells the caller who got the task and
// why.
func (s *TaskService) SmartAssign(ctx context.Context, userID, taskID uuid.UUID, teamID *uuid.UUID) (*models.Task, string, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrTaskNotFound
		}
		return nil, "", err
	}

	if teamID == nil {
		return nil, "", ErrTeamRequired
	}
	if task.CreatedBy != userID {
		return nil, "", ErrNotTaskCreator
	}
	if _, err := s.teams.GetByID(ctx, *teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrTeamNotFound
		}
		return nil, "", err
	}
	isMember, err := s.teams.IsMember(ctx, *teamID, userID)
	if err != nil {
		return nil, "", err
	}
	if !isMember {
		return nil, "", ErrNotTeamMember
	}

	members, err := s.teams.GetMembers(ctx, *teamID)
	if err != nil {
		return nil, "", err
	}

	chosen := userID
	fallback := true
	lowest := -1
	for _, member := range members {
		if member.UserID == userID {
			continue
		}
		count, err := s.tasks.CountActive(ctx, member.UserID)
		if err != nil {
			return nil, "", err
		}
		// Strict comparison: on a tie the earlier member keeps the task.
		if lowest == -1 || count < lowest {
			lowest = count
			chosen = member.UserID
			fallback = false
		}
	}

	activeCount := lowest
	note := ""
	if fallback {
		activeCount, err = s.tasks.CountActive(ctx, userID)
		if err != nil {
			return nil, "", err
		}
		note = "no other team members available, task assigned to requester"
	} else {
		note = fmt.Sprintf("task assigned to team member with %d active tasks", activeCount)
	}

	next := *task
	next.AssignedUser = &chosen
	next.UpdatedBy = &userID

	updated, err := s.writeVersioned(ctx, taskID, task.Version, &next)
	if err != nil {
		return nil, "", err
	}

	s.notify.Emit("taskAssigned", map[string]any{
		"taskId":          updated.ID,
		"assignedTo":      chosen,
		"assignedBy":      userID,
		"teamId":          *teamID,
		"activeTaskCount": activeCount,
		"fallback":        fallback,
	})
	s.notify.Emit("taskUpdated", updated)
	s.actions.LogAndEmit(ctx, userID, &updated.ID, "assigned", map[string]any{
		"assignedTo":      chosen,
		"teamId":          *teamID,
		"activeTaskCount": activeCount,
	})
	return updated, note, nil
}

// ResolveConflict replays a losing client's edit using the chosen strategy.
// Overwrite takes the client's fields verbatim; merge keeps server values for
// fields the client did not send. Either way the write goes through the same
// versioned path, so a concurrent edit during resolution conflicts again.
func (s *TaskService) ResolveConflict(ctx context.Context, userID, taskID uuid.UUID, strategy string, patch models.TaskPatch) (*models.Task, error) {
	if strategy != "overwrite" && strategy != "merge" {
		return nil, ErrInvalidStrategy
	}

	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if _, _, err := s.auth.Require(ctx, current, userID, permissions.ActionEdit); err != nil {
		return nil, err
	}

	next := *current
	if err := s.applyPatch(ctx, &next, patch, strategy == "overwrite"); err != nil {
		return nil, err
	}
	next.UpdatedBy = &userID

	previousVersion := current.Version
	updated, err := s.writeVersioned(ctx, taskID, previousVersion, &next)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("taskUpdated", updated)
	s.actions.LogAndEmit(ctx, userID, &updated.ID, "conflict_resolved", map[string]any{
		"strategy":        strategy,
		"previousVersion": previousVersion,
		"newVersion":      updated.Version,
	})
	return updated, nil
}

// Search filters tasks by status, priority, assignee and title text, then
// narrows the result to tasks the user can actually see.
func (s *TaskService) Search(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]models.Task, error) {
	results, err := s.tasks.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	sharedIDs, err := s.sharedTaskIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	shared := make(map[uuid.UUID]bool, len(sharedIDs))
	for _, id := range sharedIDs {
		shared[id] = true
	}

	var visible []models.Task
	for _, t := range results {
		if t.IsOwnedBy(userID) || shared[t.ID] {
			visible = append(visible, t)
		}
	}
	return visible, nil
}
