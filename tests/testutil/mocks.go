package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/oauth"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskService is a mock implementation of the task service used by handlers
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, userID uuid.UUID, input services.CreateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, userID, taskID uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	args := m.Called(ctx, userID, taskID)
	return args.Error(0)
}

func (m *MockTaskService) Assign(ctx context.Context, userID, taskID uuid.UUID, assigneeEmail string) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID, assigneeEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) SmartAssign(ctx context.Context, userID, taskID uuid.UUID, teamID *uuid.UUID) (*models.Task, string, error) {
	args := m.Called(ctx, userID, taskID, teamID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Task), args.String(1), args.Error(2)
}

func (m *MockTaskService) ResolveConflict(ctx context.Context, userID, taskID uuid.UUID, strategy string, patch models.TaskPatch) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID, strategy, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Search(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]models.Task, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

// MockShareService is a mock implementation of the share service used by handlers
type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) ShareWithTeam(ctx context.Context, userID, taskID, teamID uuid.UUID, permission string) (*models.SharedTask, error) {
	args := m.Called(ctx, userID, taskID, teamID, permission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedTask), args.Error(1)
}

func (m *MockShareService) Unshare(ctx context.Context, userID, taskID, teamID uuid.UUID) error {
	args := m.Called(ctx, userID, taskID, teamID)
	return args.Error(0)
}

func (m *MockShareService) UpdatePermissions(ctx context.Context, userID, taskID, teamID uuid.UUID, permission string) (*models.SharedTask, error) {
	args := m.Called(ctx, userID, taskID, teamID, permission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedTask), args.Error(1)
}

func (m *MockShareService) GetTeamTasks(ctx context.Context, userID, teamID uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, userID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockShareService) GetTaskTeams(ctx context.Context, userID, taskID uuid.UUID) ([]models.SharedTask, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedTask), args.Error(1)
}

// MockTeamService is a mock implementation of the team service used by handlers
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, userID uuid.UUID, name, description string) (*models.Team, error) {
	args := m.Called(ctx, userID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) InviteMember(ctx context.Context, userID, teamID uuid.UUID, email string) (*models.User, error) {
	args := m.Called(ctx, userID, teamID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, userID, teamID, memberID uuid.UUID) error {
	args := m.Called(ctx, userID, teamID, memberID)
	return args.Error(0)
}

func (m *MockTeamService) Leave(ctx context.Context, userID, teamID uuid.UUID) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *MockTeamService) Update(ctx context.Context, userID, teamID uuid.UUID, name, description string) (*models.Team, error) {
	args := m.Called(ctx, userID, teamID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, userID, teamID uuid.UUID) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *MockTeamService) GetByID(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, []models.TeamMember, error) {
	args := m.Called(ctx, userID, teamID)
	var team *models.Team
	var members []models.TeamMember
	if args.Get(0) != nil {
		team = args.Get(0).(*models.Team)
	}
	if args.Get(1) != nil {
		members = args.Get(1).([]models.TeamMember)
	}
	return team, members, args.Error(2)
}

func (m *MockTeamService) GetMyTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

// MockUserService is a mock implementation of the user service used by handlers
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, fullName, password string) (*models.User, error) {
	args := m.Called(ctx, email, fullName, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTokenService is a mock implementation of the token service used by handlers
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
