package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", f.counter),
		FullName: fmt.Sprintf("Test User %d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, password_hash, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, global_role, created_at, updated_at
	`, user.Email, user.FullName, user.PasswordHash, user.AvatarURL, user.Provider, user.ProviderID).Scan(
		&user.ID, &user.GlobalRole, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithPassword sets a bcrypt password hash on the user
func WithPassword(password string) UserOption {
	return func(u *models.User) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		h := string(hash)
		u.PasswordHash = &h
	}
}

// WithProvider sets the user's OAuth provider
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = &provider
		u.ProviderID = &providerID
	}
}

// CreateTeam creates a test team with the creator as its owner member
func (f *Fixtures) CreateTeam(t *testing.T, creator *models.User, members ...*models.User) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		Name:      fmt.Sprintf("Test Team %d", f.counter),
		CreatedBy: creator.ID,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO teams (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, team.Name, team.Description, team.CreatedBy).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	f.addMember(t, team.ID, creator.ID, models.RoleOwner)
	for _, m := range members {
		f.addMember(t, team.ID, m.ID, models.RoleMember)
	}

	return team
}

func (f *Fixtures) addMember(t *testing.T, teamID, userID uuid.UUID, role string) {
	t.Helper()
	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, teamID, userID, role)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
}

// CreateTask creates a test task owned by the given user
func (f *Fixtures) CreateTask(t *testing.T, creator *models.User, opts ...TaskOption) *models.Task {
	t.Helper()
	f.counter++

	task := &models.Task{
		Title:     fmt.Sprintf("Test Task %d", f.counter),
		Status:    models.TaskStatusTodo,
		Priority:  "medium",
		CreatedBy: creator.ID,
	}

	for _, opt := range opts {
		opt(task)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, created_by, assigned_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version, last_modified, created_at, updated_at
	`, task.Title, task.Description, task.Status, task.Priority, task.DueDate, task.CreatedBy, task.AssignedUser).Scan(
		&task.ID, &task.Version, &task.LastModified, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// TaskOption configures a test task
type TaskOption func(*models.Task)

// WithTitle sets the task title
func WithTitle(title string) TaskOption {
	return func(tk *models.Task) {
		tk.Title = title
	}
}

// WithStatus sets the task status
func WithStatus(status string) TaskOption {
	return func(tk *models.Task) {
		tk.Status = status
	}
}

// WithAssignee assigns the task to a user
func WithAssignee(user *models.User) TaskOption {
	return func(tk *models.Task) {
		tk.AssignedUser = &user.ID
	}
}

// ShareTask shares a task with a team at the given permission level
func (f *Fixtures) ShareTask(t *testing.T, task *models.Task, team *models.Team, sharedBy *models.User, permissions string) *models.SharedTask {
	t.Helper()

	share := &models.SharedTask{
		TaskID:      task.ID,
		TeamID:      team.ID,
		Permissions: permissions,
		SharedBy:    sharedBy.ID,
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO shared_tasks (task_id, team_id, permissions, shared_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, shared_at
	`, share.TaskID, share.TeamID, share.Permissions, share.SharedBy).Scan(&share.ID, &share.SharedAt)
	if err != nil {
		t.Fatalf("failed to share task: %v", err)
	}

	return share
}
