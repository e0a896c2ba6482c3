package services

import (
	"context"
	"encoding/json"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
)

// Store interfaces declared on the consumer side so services can be tested
// against fakes without a database.

type TaskStore interface {
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	UpdateVersioned(ctx context.Context, taskID uuid.UUID, expectedVersion int, t *models.Task) (*models.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
	FindByIDs(ctx context.Context, taskIDs []uuid.UUID) ([]models.Task, error)
	FindPersonal(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
	Search(ctx context.Context, filter store.TaskFilter) ([]models.Task, error)
}

type TeamStore interface {
	Create(ctx context.Context, name, description string, createdBy uuid.UUID) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetTeamsForMember(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	Update(ctx context.Context, teamID uuid.UUID, name, description string) (*models.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID) error
}

type ShareStore interface {
	GetSharesForTask(ctx context.Context, taskID uuid.UUID) ([]models.SharedTask, error)
	GetTaskIDsForTeam(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	Upsert(ctx context.Context, taskID, teamID, sharedBy uuid.UUID, permissions string) (*models.SharedTask, error)
	UpdatePermissions(ctx context.Context, taskID, teamID uuid.UUID, permissions string) (*models.SharedTask, error)
	Delete(ctx context.Context, taskID, teamID uuid.UUID) error
}

type UserStore interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateWithPassword(ctx context.Context, email, fullName, passwordHash string) (*models.User, error)
	FindOrCreateFromOAuth(ctx context.Context, provider, providerID, email, fullName string, avatarURL *string) (*models.User, error)
	SetGlobalRole(ctx context.Context, email, role string) error
}

type ActionStore interface {
	Insert(ctx context.Context, userID uuid.UUID, taskID *uuid.UUID, actionType string, metadata json.RawMessage) (*models.Action, error)
	GetRecent(ctx context.Context, limit int) ([]models.Action, error)
	GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Action, error)
}

type SubtaskStore interface {
	Create(ctx context.Context, parentTask uuid.UUID, title string, createdBy uuid.UUID) (*models.Subtask, error)
	GetByID(ctx context.Context, subtaskID uuid.UUID) (*models.Subtask, error)
	GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Subtask, error)
	Update(ctx context.Context, subtaskID uuid.UUID, title string, done bool) (*models.Subtask, error)
	Delete(ctx context.Context, subtaskID uuid.UUID) error
}

type CommentStore interface {
	Create(ctx context.Context, taskID, userID uuid.UUID, body string) (*models.Comment, error)
	GetByID(ctx context.Context, commentID uuid.UUID) (*models.Comment, error)
	GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Comment, error)
	Delete(ctx context.Context, commentID uuid.UUID) error
}

type AttachmentStore interface {
	Create(ctx context.Context, taskID uuid.UUID, filename, fileURL string, uploadedBy uuid.UUID) (*models.Attachment, error)
	GetByID(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error)
	GetForTask(ctx context.Context, taskID uuid.UUID) ([]models.Attachment, error)
	Delete(ctx context.Context, attachmentID uuid.UUID) error
}

// Notifier broadcasts a named event to every connected client.
type Notifier interface {
	Emit(event string, payload any)
}
