package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/oauth"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, fullName, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, input services.CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
	Assign(ctx context.Context, userID, taskID uuid.UUID, assigneeEmail string) (*models.Task, error)
	SmartAssign(ctx context.Context, userID, taskID uuid.UUID, teamID *uuid.UUID) (*models.Task, string, error)
	ResolveConflict(ctx context.Context, userID, taskID uuid.UUID, strategy string, patch models.TaskPatch) (*models.Task, error)
	Search(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]models.Task, error)
}

// ShareServiceInterface defines the methods used by handlers from ShareService
type ShareServiceInterface interface {
	ShareWithTeam(ctx context.Context, userID, taskID, teamID uuid.UUID, permission string) (*models.SharedTask, error)
	Unshare(ctx context.Context, userID, taskID, teamID uuid.UUID) error
	UpdatePermissions(ctx context.Context, userID, taskID, teamID uuid.UUID, permission string) (*models.SharedTask, error)
	GetTeamTasks(ctx context.Context, userID, teamID uuid.UUID) ([]models.Task, error)
	GetTaskTeams(ctx context.Context, userID, taskID uuid.UUID) ([]models.SharedTask, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, name, description string) (*models.Team, error)
	InviteMember(ctx context.Context, userID, teamID uuid.UUID, email string) (*models.User, error)
	RemoveMember(ctx context.Context, userID, teamID, memberID uuid.UUID) error
	Leave(ctx context.Context, userID, teamID uuid.UUID) error
	Update(ctx context.Context, userID, teamID uuid.UUID, name, description string) (*models.Team, error)
	Delete(ctx context.Context, userID, teamID uuid.UUID) error
	GetByID(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, []models.TeamMember, error)
	GetMyTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
}

// SubtaskServiceInterface defines the methods used by handlers from SubtaskService
type SubtaskServiceInterface interface {
	Add(ctx context.Context, userID, taskID uuid.UUID, title string) (*models.Subtask, error)
	Update(ctx context.Context, userID, subtaskID uuid.UUID, title string, done bool) (*models.Subtask, error)
	Delete(ctx context.Context, userID, subtaskID uuid.UUID) error
	List(ctx context.Context, userID, taskID uuid.UUID) ([]models.Subtask, error)
}

// CommentServiceInterface defines the methods used by handlers from CommentService
type CommentServiceInterface interface {
	Add(ctx context.Context, userID, taskID uuid.UUID, body string) (*models.Comment, error)
	List(ctx context.Context, userID, taskID uuid.UUID) ([]models.Comment, error)
	Delete(ctx context.Context, userID, commentID uuid.UUID) error
}

// AttachmentServiceInterface defines the methods used by handlers from AttachmentService
type AttachmentServiceInterface interface {
	Add(ctx context.Context, userID, taskID uuid.UUID, filename, fileURL string) (*models.Attachment, error)
	List(ctx context.Context, userID, taskID uuid.UUID) ([]models.Attachment, error)
	Delete(ctx context.Context, userID, attachmentID uuid.UUID) error
}

// ActionServiceInterface defines the methods used by handlers from ActionService
type ActionServiceInterface interface {
	GetRecent(ctx context.Context, limit int) ([]models.Action, error)
	GetForTask(ctx context.Context, userID, taskID uuid.UUID) ([]models.Action, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}
