package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActionService records the audit trail. Logging is best effort: a failed
// insert must never fail the mutation that triggered it.
type ActionService struct {
	actions ActionStore
	tasks   TaskStore
	auth    *Authorizer
	notify  Notifier
	logger  *zap.Logger
}

func NewActionService(actions ActionStore, tasks TaskStore, auth *Authorizer, notify Notifier, logger *zap.Logger) *ActionService {
	return &ActionService{actions: actions, tasks: tasks, auth: auth, notify: notify, logger: logger}
}

// LogAndEmit persists an audit entry and broadcasts it. Metadata is any
// JSON-marshalable value; nil records an empty object.
func (s *ActionService) LogAndEmit(ctx context.Context, userID uuid.UUID, taskID *uuid.UUID, actionType string, metadata any) {
	raw := json.RawMessage(`{}`)
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			s.logger.Warn("failed to marshal action metadata",
				zap.String("action_type", actionType), zap.Error(err))
		} else {
			raw = b
		}
	}

	action, err := s.actions.Insert(ctx, userID, taskID, actionType, raw)
	if err != nil {
		s.logger.Warn("failed to record action",
			zap.String("action_type", actionType), zap.Error(err))
		return
	}
	s.notify.Emit("actionLogged", action)
}

// GetRecent returns the newest audit entries. A non-positive limit defaults
// to 20.
func (s *ActionService) GetRecent(ctx context.Context, limit int) ([]models.Action, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.actions.GetRecent(ctx, limit)
}

// GetForTask returns a task's audit trail; the caller needs view access.
func (s *ActionService) GetForTask(ctx context.Context, userID, taskID uuid.UUID) ([]models.Action, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if _, _, err := s.auth.Require(ctx, task, userID, permissions.ActionView); err != nil {
		return nil, err
	}
	return s.actions.GetForTask(ctx, taskID)
}
