package handlers

import (
	"errors"

	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

// respondError maps service errors onto HTTP responses. Conflicts carry the
// current server task so the client can offer merge or overwrite.
func respondError(c *drift.Context, err error) {
	var conflict *services.ConflictError
	var denied *services.PermissionError

	switch {
	case errors.As(err, &conflict):
		_ = c.JSON(409, map[string]any{
			"code":           "VERSION_CONFLICT",
			"message":        conflict.Error(),
			"server_task":    conflict.ServerTask,
			"client_version": conflict.ClientVersion,
		})
	case errors.As(err, &denied):
		c.Forbidden(denied.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrShareNotFound),
		errors.Is(err, services.ErrSubtaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrAttachmentNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrNotTaskCreator),
		errors.Is(err, services.ErrNotTeamCreator),
		errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrCannotRemoveCreator),
		errors.Is(err, services.ErrCreatorCannotLeave):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrTeamRequired),
		errors.Is(err, services.ErrInvalidStrategy),
		errors.Is(err, services.ErrCommentBodyRequired),
		errors.Is(err, services.ErrFilenameRequired),
		errors.Is(err, services.ErrPasswordTooShort):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		_ = c.JSON(409, map[string]string{
			"code":    "EMAIL_TAKEN",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(err.Error())
	default:
		c.InternalServerError("internal error")
	}
}
