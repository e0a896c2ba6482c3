package services

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/google/uuid"
)

// Authorizer resolves a user's effective permission level on a task. Share
// records and team memberships are re-read on every decision so revocations
// take effect immediately.
type Authorizer struct {
	teams  TeamStore
	shares ShareStore
}

func NewAuthorizer(teams TeamStore, shares ShareStore) *Authorizer {
	return &Authorizer{teams: teams, shares: shares}
}

// LevelFor returns the user's level on the task along with the share records
// that were loaded, so callers can attach them to responses.
func (a *Authorizer) LevelFor(ctx context.Context, task *models.Task, userID uuid.UUID) (permissions.Level, []models.SharedTask, error) {
	shares, err := a.shares.GetSharesForTask(ctx, task.ID)
	if err != nil {
		return permissions.None, nil, err
	}

	// Owners need no membership lookup.
	if task.IsOwnedBy(userID) {
		return permissions.Owner, shares, nil
	}

	teams, err := a.teams.GetTeamsForMember(ctx, userID)
	if err != nil {
		return permissions.None, nil, err
	}
	memberTeams := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		memberTeams[i] = t.ID
	}

	return permissions.Resolve(task, userID, shares, memberTeams), shares, nil
}

// Require resolves the user's level and fails with a PermissionError unless it
// grants the action.
func (a *Authorizer) Require(ctx context.Context, task *models.Task, userID uuid.UUID, action permissions.Action) (permissions.Level, []models.SharedTask, error) {
	level, shares, err := a.LevelFor(ctx, task, userID)
	if err != nil {
		return permissions.None, nil, err
	}
	if !level.Allows(action) {
		return level, nil, &PermissionError{Action: action, Held: level}
	}
	return level, shares, nil
}
