package handlers

import (
	"errors"

	"github.com/dimitrije/taskhub-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

// respondServiceError maps service sentinels onto HTTP statuses. Storage
// failures are never echoed back to the client.
func respondServiceError(c *drift.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrInviteNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrNotAuthorized):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrInviteAlreadyExists):
		conflict(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrAssigneeNotMember):
		c.BadRequest(err.Error())
	default:
		c.InternalServerError("internal error")
	}
}

func conflict(c *drift.Context, message string) {
	_ = c.JSON(409, map[string]string{"error": message})
}
