package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type taskFixture struct {
	svc    *TaskService
	tasks  *mockTaskStore
	users  *mockUserStore
	teams  *mockTeamStore
	shares *mockShareStore
	logs   *mockActionStore
	events *eventRecorder
}

func setupTaskService(t *testing.T) *taskFixture {
	t.Helper()
	f := &taskFixture{
		tasks:  &mockTaskStore{},
		users:  &mockUserStore{},
		teams:  &mockTeamStore{},
		shares: &mockShareStore{},
		logs:   &mockActionStore{},
		events: &eventRecorder{},
	}
	auth := NewAuthorizer(f.teams, f.shares)
	actions := NewActionService(f.logs, f.tasks, auth, f.events, zap.NewNop())
	f.svc = NewTaskService(f.tasks, f.users, f.teams, f.shares, auth, actions, f.events)
	return f
}

func (f *taskFixture) expectLog() {
	f.logs.On("Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.Action{ID: uuid.New()}, nil)
}

func ownedTask(creator uuid.UUID, version int) *models.Task {
	return &models.Task{
		ID:           uuid.New(),
		Title:        "Plan sprint",
		Description:  "Break down the milestone",
		Status:       models.TaskStatusTodo,
		Priority:     "medium",
		CreatedBy:    creator,
		Version:      version,
		LastModified: time.Now().Add(-time.Hour),
	}
}

func TestTaskService_Create(t *testing.T) {
	f := setupTaskService(t)
	ctx := context.Background()
	creator := uuid.New()

	f.tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *models.Task) bool {
		return task.Title == "Plan sprint" && task.Status == models.TaskStatusTodo &&
			task.Priority == "medium" && task.CreatedBy == creator
	})).Return(ownedTask(creator, 1), nil)
	f.expectLog()

	task, err := f.svc.Create(ctx, creator, CreateTaskInput{Title: "Plan sprint"})

	require.NoError(t, err)
	assert.Equal(t, 1, task.Version)
	assert.True(t, f.events.has("taskCreated"))
	assert.True(t, f.events.has("actionLogged"))
}

func TestTaskService_Create_TitleRequired(t *testing.T) {
	f := setupTaskService(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateTaskInput{Title: "   "})

	assert.ErrorIs(t, err, ErrTitleRequired)
	f.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_Create_AssigneeNotFound(t *testing.T) {
	f := setupTaskService(t)
	email := "ghost@example.com"

	f.users.On("GetByEmail", mock.Anything, email).Return(nil, store.ErrNotFound)

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateTaskInput{
		Title:         "Plan sprint",
		AssigneeEmail: &email,
	})

	assert.ErrorIs(t, err, ErrAssigneeNotFound)
	f.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_Update_IncrementsVersion(t *testing.T) {
	f := setupTaskService(t)
	ctx := context.Background()
	creator := uuid.New()
	current := ownedTask(creator, 3)

	updated := *current
	updated.Title = "Plan sprint v2"
	updated.Version = 4
	updated.UpdatedBy = &creator

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).Return([]models.SharedTask{}, nil)
	f.tasks.On("UpdateVersioned", mock.Anything, current.ID, 3, mock.AnythingOfType("*models.Task")).
		Return(&updated, nil)
	f.expectLog()

	title := "Plan sprint v2"
	got, err := f.svc.Update(ctx, creator, current.ID, models.TaskPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, 4, got.Version)
	assert.Equal(t, "Plan sprint v2", got.Title)
	assert.True(t, f.events.has("taskUpdated"))
	assert.False(t, f.events.has("taskConflict"))
}

func TestTaskService_Update_StaleClientVersion(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	current := ownedTask(creator, 5)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).Return([]models.SharedTask{}, nil)

	title := "doomed edit"
	clientVersion := 2
	_, err := f.svc.Update(context.Background(), creator, current.ID, models.TaskPatch{
		Title:   &title,
		Version: &clientVersion,
	})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, current, conflict.ServerTask)
	assert.Equal(t, 2, conflict.ClientVersion)
	assert.True(t, f.events.has("taskConflict"))
	// The server task stays untouched on a conflict.
	f.tasks.AssertNotCalled(t, "UpdateVersioned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_Update_TimestampFallbackConflict(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	otherEditor := uuid.New()
	current := ownedTask(creator, 5)
	current.UpdatedBy = &otherEditor

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).Return([]models.SharedTask{}, nil)

	title := "offline edit"
	staleRead := current.LastModified.Add(-time.Minute)
	_, err := f.svc.Update(context.Background(), creator, current.ID, models.TaskPatch{
		Title:        &title,
		LastModified: &staleRead,
	})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.True(t, f.events.has("taskConflict"))
}

func TestTaskService_Update_LostSwapBecomesConflict(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	current := ownedTask(creator, 3)

	fresh := *current
	fresh.Version = 4

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil).Once()
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).Return([]models.SharedTask{}, nil)
	f.tasks.On("UpdateVersioned", mock.Anything, current.ID, 3, mock.AnythingOfType("*models.Task")).
		Return(nil, store.ErrStaleVersion)
	f.tasks.On("GetByID", mock.Anything, current.ID).Return(&fresh, nil).Once()

	title := "racing edit"
	_, err := f.svc.Update(context.Background(), creator, current.ID, models.TaskPatch{Title: &title})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 4, conflict.ServerTask.Version)
	assert.True(t, f.events.has("taskConflict"))
}

func TestTaskService_Update_ViewShareForbidden(t *testing.T) {
	f := setupTaskService(t)
	viewer := uuid.New()
	teamID := uuid.New()
	current := ownedTask(uuid.New(), 1)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).
		Return([]models.SharedTask{{TaskID: current.ID, TeamID: teamID, Permissions: "view"}}, nil)
	f.teams.On("GetTeamsForMember", mock.Anything, viewer).
		Return([]models.Team{{ID: teamID}}, nil)

	title := "not allowed"
	_, err := f.svc.Update(context.Background(), viewer, current.ID, models.TaskPatch{Title: &title})

	var denied *PermissionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, permissions.View, denied.Held)
}

func TestTaskService_Delete_ViewShareNamesHeldLevel(t *testing.T) {
	f := setupTaskService(t)
	viewer := uuid.New()
	teamID := uuid.New()
	current := ownedTask(uuid.New(), 1)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).
		Return([]models.SharedTask{{TaskID: current.ID, TeamID: teamID, Permissions: "view"}}, nil)
	f.teams.On("GetTeamsForMember", mock.Anything, viewer).
		Return([]models.Team{{ID: teamID}}, nil)

	err := f.svc.Delete(context.Background(), viewer, current.ID)

	var denied *PermissionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, permissions.View, denied.Held)
	assert.Contains(t, denied.Error(), "view access")
	f.tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTaskService_Delete_NoAccess(t *testing.T) {
	f := setupTaskService(t)
	stranger := uuid.New()
	current := ownedTask(uuid.New(), 1)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).Return([]models.SharedTask{}, nil)
	f.teams.On("GetTeamsForMember", mock.Anything, stranger).Return([]models.Team{}, nil)

	err := f.svc.Delete(context.Background(), stranger, current.ID)

	var denied *PermissionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, permissions.None, denied.Held)
	assert.Equal(t, "you do not have access to this task", denied.Error())
}

func TestTaskService_Delete_FullShareAllowed(t *testing.T) {
	f := setupTaskService(t)
	member := uuid.New()
	teamID := uuid.New()
	current := ownedTask(uuid.New(), 1)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).
		Return([]models.SharedTask{{TaskID: current.ID, TeamID: teamID, Permissions: "full"}}, nil)
	f.teams.On("GetTeamsForMember", mock.Anything, member).
		Return([]models.Team{{ID: teamID}}, nil)
	f.tasks.On("Delete", mock.Anything, current.ID).Return(nil)
	f.expectLog()

	err := f.svc.Delete(context.Background(), member, current.ID)

	require.NoError(t, err)
	assert.True(t, f.events.has("taskDeleted"))
}

func member(teamID, userID uuid.UUID, joinedAt time.Time) models.TeamMember {
	return models.TeamMember{ID: uuid.New(), TeamID: teamID, UserID: userID, Role: models.RoleMember, CreatedAt: joinedAt}
}

func TestTaskService_SmartAssign_PicksLowestActiveCount(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	teamID := uuid.New()
	userB := uuid.New()
	userC := uuid.New()
	userD := uuid.New()
	current := ownedTask(creator, 1)
	base := time.Now().Add(-24 * time.Hour)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.teams.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID, CreatedBy: creator}, nil)
	f.teams.On("IsMember", mock.Anything, teamID, creator).Return(true, nil)
	f.teams.On("GetMembers", mock.Anything, teamID).Return([]models.TeamMember{
		member(teamID, creator, base),
		member(teamID, userB, base.Add(time.Minute)),
		member(teamID, userC, base.Add(2*time.Minute)),
		member(teamID, userD, base.Add(3*time.Minute)),
	}, nil)
	f.tasks.On("CountActive", mock.Anything, userB).Return(3, nil)
	f.tasks.On("CountActive", mock.Anything, userC).Return(1, nil)
	f.tasks.On("CountActive", mock.Anything, userD).Return(1, nil)

	updated := *current
	updated.AssignedUser = &userC
	updated.Version = 2
	f.tasks.On("UpdateVersioned", mock.Anything, current.ID, 1, mock.MatchedBy(func(task *models.Task) bool {
		return task.AssignedUser != nil && *task.AssignedUser == userC
	})).Return(&updated, nil)
	f.expectLog()

	got, note, err := f.svc.SmartAssign(context.Background(), creator, current.ID, &teamID)

	require.NoError(t, err)
	// userC and userD tie at 1 active task; the earlier member wins.
	assert.Equal(t, userC, *got.AssignedUser)
	assert.Equal(t, "task assigned to team member with 1 active tasks", note)
	assert.True(t, f.events.has("taskAssigned"))
	assert.True(t, f.events.has("taskUpdated"))
}

func TestTaskService_SmartAssign_FallbackToRequester(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	teamID := uuid.New()
	current := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.teams.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID, CreatedBy: creator}, nil)
	f.teams.On("IsMember", mock.Anything, teamID, creator).Return(true, nil)
	f.teams.On("GetMembers", mock.Anything, teamID).Return([]models.TeamMember{
		member(teamID, creator, time.Now()),
	}, nil)
	f.tasks.On("CountActive", mock.Anything, creator).Return(2, nil)

	updated := *current
	updated.AssignedUser = &creator
	updated.Version = 2
	f.tasks.On("UpdateVersioned", mock.Anything, current.ID, 1, mock.MatchedBy(func(task *models.Task) bool {
		return task.AssignedUser != nil && *task.AssignedUser == creator
	})).Return(&updated, nil)
	f.expectLog()

	got, note, err := f.svc.SmartAssign(context.Background(), creator, current.ID, &teamID)

	require.NoError(t, err)
	assert.Equal(t, creator, *got.AssignedUser)
	assert.Equal(t, "no other team members available, task assigned to requester", note)
}

func TestTaskService_SmartAssign_TeamRequired(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	current := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)

	_, _, err := f.svc.SmartAssign(context.Background(), creator, current.ID, nil)

	assert.ErrorIs(t, err, ErrTeamRequired)
}

func TestTaskService_SmartAssign_CreatorOnly(t *testing.T) {
	f := setupTaskService(t)
	teamID := uuid.New()
	current := ownedTask(uuid.New(), 1)
	requester := uuid.New()

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)

	_, _, err := f.svc.SmartAssign(context.Background(), requester, current.ID, &teamID)

	assert.ErrorIs(t, err, ErrNotTaskCreator)
	f.tasks.AssertNotCalled(t, "UpdateVersioned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_SmartAssign_RequesterMustBeMember(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	teamID := uuid.New()
	current := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.teams.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID}, nil)
	f.teams.On("IsMember", mock.Anything, teamID, creator).Return(false, nil)

	_, _, err := f.svc.SmartAssign(context.Background(), creator, current.ID, &teamID)

	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestTaskService_ResolveConflict_Merge(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	current := ownedTask(creator, 6)
	current.Description = "server description"

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).Return([]models.SharedTask{}, nil)

	updated := *current
	updated.Title = "client title"
	updated.Version = 7
	f.tasks.On("UpdateVersioned", mock.Anything, current.ID, 6, mock.MatchedBy(func(task *models.Task) bool {
		// Merge keeps server values for fields the client did not send.
		return task.Title == "client title" && task.Description == "server description"
	})).Return(&updated, nil)
	f.expectLog()

	title := "client title"
	got, err := f.svc.ResolveConflict(context.Background(), creator, current.ID, "merge", models.TaskPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, 7, got.Version)
	assert.True(t, f.events.has("taskUpdated"))
}

func TestTaskService_ResolveConflict_Overwrite(t *testing.T) {
	f := setupTaskService(t)
	creator := uuid.New()
	assignee := uuid.New()
	current := ownedTask(creator, 6)
	current.Description = "server description"
	current.AssignedUser = &assignee

	f.tasks.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	f.shares.On("GetSharesForTask", mock.Anything, current.ID).Return([]models.SharedTask{}, nil)

	updated := *current
	updated.Title = "client title"
	updated.Description = ""
	updated.AssignedUser = nil
	updated.Version = 7
	f.tasks.On("UpdateVersioned", mock.Anything, current.ID, 6, mock.MatchedBy(func(task *models.Task) bool {
		// Overwrite replaces every client-controlled field, absent means cleared.
		return task.Title == "client title" && task.Description == "" && task.AssignedUser == nil
	})).Return(&updated, nil)
	f.expectLog()

	title := "client title"
	got, err := f.svc.ResolveConflict(context.Background(), creator, current.ID, "overwrite", models.TaskPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "", got.Description)
	assert.Nil(t, got.AssignedUser)
}

func TestTaskService_ResolveConflict_InvalidStrategy(t *testing.T) {
	f := setupTaskService(t)

	_, err := f.svc.ResolveConflict(context.Background(), uuid.New(), uuid.New(), "panic", models.TaskPatch{})

	assert.ErrorIs(t, err, ErrInvalidStrategy)
	f.tasks.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTaskService_List_DeduplicatesSharedTasks(t *testing.T) {
	f := setupTaskService(t)
	userID := uuid.New()
	teamID := uuid.New()
	mine := ownedTask(userID, 1)
	theirs := ownedTask(uuid.New(), 1)

	f.tasks.On("FindPersonal", mock.Anything, userID).Return([]models.Task{*mine}, nil)
	f.teams.On("GetTeamsForMember", mock.Anything, userID).Return([]models.Team{{ID: teamID}}, nil)
	// The team share includes a task the user already owns.
	f.shares.On("GetTaskIDsForTeam", mock.Anything, teamID).
		Return([]uuid.UUID{mine.ID, theirs.ID}, nil)
	f.tasks.On("FindByIDs", mock.Anything, []uuid.UUID{theirs.ID}).Return([]models.Task{*theirs}, nil)
	f.shares.On("GetSharesForTask", mock.Anything, mine.ID).Return([]models.SharedTask{}, nil)
	f.shares.On("GetSharesForTask", mock.Anything, theirs.ID).
		Return([]models.SharedTask{{TaskID: theirs.ID, TeamID: teamID, Permissions: "edit"}}, nil)

	tasks, err := f.svc.List(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, mine.ID, tasks[0].ID)
	assert.Equal(t, theirs.ID, tasks[1].ID)
	assert.Len(t, tasks[1].SharedWith, 1)
}

func TestTaskService_Get_NotFound(t *testing.T) {
	f := setupTaskService(t)
	taskID := uuid.New()

	f.tasks.On("GetByID", mock.Anything, taskID).Return(nil, store.ErrNotFound)

	_, err := f.svc.Get(context.Background(), uuid.New(), taskID)

	assert.ErrorIs(t, err, ErrTaskNotFound)
}
