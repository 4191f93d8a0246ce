package handlers

import (
	"errors"
	"log"

	apierrors "github.com/cpopa/taskdesk-api/internal/errors"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"github.com/cpopa/taskdesk-api/internal/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates a service-layer error into the API error
// envelope. Unrecognized errors become a 500 with the detail logged, not
// leaked.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrParentTaskNotFound),
		errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMemberUserNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrAssigneeNotMember):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeNotMember, err.Error())

	case errors.Is(err, services.ErrDelegationLimitReached):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeLimitReached, err.Error())

	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrAssigneeRequired),
		errors.Is(err, services.ErrStatusRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidDueDate),
		errors.Is(err, services.ErrAlreadyInChain),
		errors.Is(err, services.ErrWorkspaceNameRequired),
		errors.Is(err, services.ErrInvalidMemberRole),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrMessageContentRequired),
		errors.Is(err, services.ErrMessageTargetRequired),
		errors.Is(err, services.ErrSearchQueryTooShort),
		errors.Is(err, services.ErrLocationRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidUserRole):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrNotWorkspaceMember),
		errors.Is(err, services.ErrNotCurrentAssignee),
		errors.Is(err, services.ErrTaskAccessDenied),
		errors.Is(err, services.ErrTaskEditForbidden),
		errors.Is(err, services.ErrLeadershipRequired):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, repository.ErrConcurrentDelegation):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefresh):
		apierrors.Unauthorized(c, err.Error())

	case errors.Is(err, services.ErrAIUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		log.Printf("unhandled service error: %v", err)
		apierrors.InternalError(c, "")
	}
}
