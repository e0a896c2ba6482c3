package services

import (
	"context"
	"testing"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type shareFixture struct {
	svc    *ShareService
	tasks  *mockTaskStore
	teams  *mockTeamStore
	shares *mockShareStore
	logs   *mockActionStore
	events *eventRecorder
}

func setupShareService(t *testing.T) *shareFixture {
	t.Helper()
	f := &shareFixture{
		tasks:  &mockTaskStore{},
		teams:  &mockTeamStore{},
		shares: &mockShareStore{},
		logs:   &mockActionStore{},
		events: &eventRecorder{},
	}
	auth := NewAuthorizer(f.teams, f.shares)
	actions := NewActionService(f.logs, f.tasks, auth, f.events, zap.NewNop())
	f.svc = NewShareService(f.tasks, f.teams, f.shares, actions, f.events)
	return f
}

func (f *shareFixture) expectLog() {
	f.logs.On("Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&models.Action{ID: uuid.New()}, nil)
}

func TestShareService_ShareWithTeam_DefaultsToEdit(t *testing.T) {
	f := setupShareService(t)
	creator := uuid.New()
	teamID := uuid.New()
	task := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	f.teams.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID}, nil)
	f.teams.On("IsMember", mock.Anything, teamID, creator).Return(true, nil)
	f.shares.On("Upsert", mock.Anything, task.ID, teamID, creator, "edit").
		Return(&models.SharedTask{TaskID: task.ID, TeamID: teamID, Permissions: "edit"}, nil)
	f.expectLog()

	share, err := f.svc.ShareWithTeam(context.Background(), creator, task.ID, teamID, "")

	require.NoError(t, err)
	assert.Equal(t, "edit", share.Permissions)
	assert.True(t, f.events.has("taskShared"))
}

func TestShareService_ShareWithTeam_CreatorOnly(t *testing.T) {
	f := setupShareService(t)
	task := ownedTask(uuid.New(), 1)
	stranger := uuid.New()

	f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)

	_, err := f.svc.ShareWithTeam(context.Background(), stranger, task.ID, uuid.New(), "view")

	assert.ErrorIs(t, err, ErrNotTaskCreator)
	f.shares.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestShareService_ShareWithTeam_InvalidPermission(t *testing.T) {
	f := setupShareService(t)

	_, err := f.svc.ShareWithTeam(context.Background(), uuid.New(), uuid.New(), uuid.New(), "owner")

	assert.Error(t, err)
	f.tasks.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestShareService_ShareWithTeam_SharerMustBeMember(t *testing.T) {
	f := setupShareService(t)
	creator := uuid.New()
	teamID := uuid.New()
	task := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	f.teams.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID}, nil)
	f.teams.On("IsMember", mock.Anything, teamID, creator).Return(false, nil)

	_, err := f.svc.ShareWithTeam(context.Background(), creator, task.ID, teamID, "view")

	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestShareService_Unshare(t *testing.T) {
	f := setupShareService(t)
	creator := uuid.New()
	teamID := uuid.New()
	task := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	f.shares.On("Delete", mock.Anything, task.ID, teamID).Return(nil)
	f.expectLog()

	err := f.svc.Unshare(context.Background(), creator, task.ID, teamID)

	require.NoError(t, err)
	assert.True(t, f.events.has("taskUnshared"))
}

func TestShareService_Unshare_NotShared(t *testing.T) {
	f := setupShareService(t)
	creator := uuid.New()
	task := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	f.shares.On("Delete", mock.Anything, task.ID, mock.Anything).Return(store.ErrNotFound)

	err := f.svc.Unshare(context.Background(), creator, task.ID, uuid.New())

	assert.ErrorIs(t, err, ErrShareNotFound)
}

func TestShareService_GetTeamTasks_MemberOnly(t *testing.T) {
	f := setupShareService(t)
	teamID := uuid.New()
	outsider := uuid.New()

	f.teams.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID}, nil)
	f.teams.On("IsMember", mock.Anything, teamID, outsider).Return(false, nil)

	_, err := f.svc.GetTeamTasks(context.Background(), outsider, teamID)

	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestShareService_UpdatePermissions(t *testing.T) {
	f := setupShareService(t)
	creator := uuid.New()
	teamID := uuid.New()
	task := ownedTask(creator, 1)

	f.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	f.shares.On("UpdatePermissions", mock.Anything, task.ID, teamID, "full").
		Return(&models.SharedTask{TaskID: task.ID, TeamID: teamID, Permissions: "full"}, nil)
	f.expectLog()

	share, err := f.svc.UpdatePermissions(context.Background(), creator, task.ID, teamID, "full")

	require.NoError(t, err)
	assert.Equal(t, "full", share.Permissions)
	assert.True(t, f.events.has("taskPermissionsUpdated"))
}
