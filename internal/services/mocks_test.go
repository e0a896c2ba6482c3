package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockTaskStore struct {
	mock.Mock
}

func (m *mockTaskStore) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *mockTaskStore) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *mockTaskStore) UpdateVersioned(ctx context.Context, taskID uuid.UUID, expectedVersion int, t *models.Task) (*models.Task, error) {
	args := m.Called(ctx, taskID, expectedVersion, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *mockTaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	return m.Called(ctx, taskID).Error(0)
}

func (m *mockTaskStore) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskStore) FindByIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, taskIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *mockTaskStore) FindPersonal(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *mockTaskStore) Search(ctx context.Context, filter store.TaskFilter) ([]models.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

type mockTeamStore struct {
	mock.Mock
}

func (m *mockTeamStore) Create(ctx context.Context, name, description string, createdBy uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, name, description, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *mockTeamStore) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *mockTeamStore) GetTeamsForMember(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *mockTeamStore) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTeamStore) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *mockTeamStore) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

func (m *mockTeamStore) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

func (m *mockTeamStore) Update(ctx context.Context, teamID uuid.UUID, name, description string) (*models.Team, error) {
	args := m.Called(ctx, teamID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *mockTeamStore) Delete(ctx context.Context, teamID uuid.UUID) error {
	return m.Called(ctx, teamID).Error(0)
}

type mockShareStore struct {
	mock.Mock
}

func (m *mockShareStore) GetSharesForTask(ctx context.Context, taskID uuid.UUID) ([]models.SharedTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedTask), args.Error(1)
}

func (m *mockShareStore) GetTaskIDsForTeam(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockShareStore) Upsert(ctx context.Context, taskID, teamID, sharedBy uuid.UUID, permissions string) (*models.SharedTask, error) {
	args := m.Called(ctx, taskID, teamID, sharedBy, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedTask), args.Error(1)
}

func (m *mockShareStore) UpdatePermissions(ctx context.Context, taskID, teamID uuid.UUID, permissions string) (*models.SharedTask, error) {
	args := m.Called(ctx, taskID, teamID, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedTask), args.Error(1)
}

func (m *mockShareStore) Delete(ctx context.Context, taskID, teamID uuid.UUID) error {
	return m.Called(ctx, taskID, teamID).Error(0)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) CreateWithPassword(ctx context.Context, email, fullName, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, email, fullName, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) FindOrCreateFromOAuth(ctx context.Context, provider, providerID, email, fullName string, avatarURL *string) (*models.User, error) {
	args := m.Called(ctx, provider, providerID, email, fullName, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) SetGlobalRole(ctx context.Context, email, role string) error {
	return m.Called(ctx, email, role).Error(0)
}

type mockActionStore struct {
	mock.Mock
}

func (m *mockActionStore) Insert(ctx context.Context, userID uuid.UUID, taskID *uuid.UUID, actionType string, metadata json.RawMessage) (*models.Action, error) {
	args := m.Called(ctx, userID, taskID, actionType, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Action), args.Error(1)
}

func (m *mockActionStore) GetRecent(ctx context.Context, limit int) ([]models.Action, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Action), args.Error(1)
}

func (m *mockActionStore) GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Action, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Action), args.Error(1)
}

type mockSubtaskStore struct {
	mock.Mock
}

func (m *mockSubtaskStore) Create(ctx context.Context, parentTask uuid.UUID, title string, createdBy uuid.UUID) (*models.Subtask, error) {
	args := m.Called(ctx, parentTask, title, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *mockSubtaskStore) GetByID(ctx context.Context, subtaskID uuid.UUID) (*models.Subtask, error) {
	args := m.Called(ctx, subtaskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *mockSubtaskStore) GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Subtask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subtask), args.Error(1)
}

func (m *mockSubtaskStore) Update(ctx context.Context, subtaskID uuid.UUID, title string, done bool) (*models.Subtask, error) {
	args := m.Called(ctx, subtaskID, title, done)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *mockSubtaskStore) Delete(ctx context.Context, subtaskID uuid.UUID) error {
	return m.Called(ctx, subtaskID).Error(0)
}

// eventRecorder captures emitted events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Event   string
	Payload any
}

func (r *eventRecorder) Emit(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Event: event, Payload: payload})
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Event
	}
	return names
}

func (r *eventRecorder) has(event string) bool {
	for _, name := range r.names() {
		if name == event {
			return true
		}
	}
	return false
}
