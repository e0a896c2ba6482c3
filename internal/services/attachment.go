package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
)

var ErrFilenameRequired = errors.New("filename is required")

// AttachmentService stores file metadata; blobs live in external storage.
type AttachmentService struct {
	tasks       TaskStore
	attachments AttachmentStore
	auth        *Authorizer
	actions     *ActionService
	notify      Notifier
}

func NewAttachmentService(tasks TaskStore, attachments AttachmentStore, auth *Authorizer, actions *ActionService, notify Notifier) *AttachmentService {
	return &AttachmentService{tasks: tasks, attachments: attachments, auth: auth, actions: actions, notify: notify}
}

func (s *AttachmentService) requireOnTask(ctx context.Context, userID, taskID uuid.UUID, action permissions.Action) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	_, _, err = s.auth.Require(ctx, task, userID, action)
	return err
}

func (s *AttachmentService) Add(ctx context.Context, userID, taskID uuid.UUID, filename, fileURL string) (*models.Attachment, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrFilenameRequired
	}
	if err := s.requireOnTask(ctx, userID, taskID, permissions.ActionEdit); err != nil {
		return nil, err
	}

	attachment, err := s.attachments.Create(ctx, taskID, filename, fileURL, userID)
	if err != nil {
		return nil, err
	}

	s.notify.Emit("attachmentAdded", attachment)
	s.actions.LogAndEmit(ctx, userID, &taskID, "attachment_added", map[string]any{"filename": filename})
	return attachment, nil
}

func (s *AttachmentService) List(ctx context.Context, userID, taskID uuid.UUID) ([]models.Attachment, error) {
	if err := s.requireOnTask(ctx, userID, taskID, permissions.ActionView); err != nil {
		return nil, err
	}
	return s.attachments.GetForTask(ctx, taskID)
}

func (s *AttachmentService) Delete(ctx context.Context, userID, attachmentID uuid.UUID) error {
	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}
	if err := s.requireOnTask(ctx, userID, attachment.TaskID, mutationAction(attachment.UploadedBy, userID)); err != nil {
		return err
	}

	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}

	s.notify.Emit("attachmentDeleted", map[string]any{"attachmentId": attachmentID, "taskId": attachment.TaskID})
	s.actions.LogAndEmit(ctx, userID, &attachment.TaskID, "attachment_deleted", map[string]any{"attachmentId": attachmentID})
	return nil
}
