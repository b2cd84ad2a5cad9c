package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	followdomain "github.com/smallbiznis/orghub/internal/follow/domain"
	invitationdomain "github.com/smallbiznis/orghub/internal/invitation/domain"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	organizationdomain "github.com/smallbiznis/orghub/internal/organization/domain"
	"github.com/smallbiznis/orghub/internal/owner"
	projectdomain "github.com/smallbiznis/orghub/internal/project/domain"
	"github.com/smallbiznis/orghub/internal/role"
	userdomain "github.com/smallbiznis/orghub/internal/user/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware turns the last error attached to the context
// into a JSON error response, if no handler wrote a body first.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, namespacedomain.ErrNotSlugOwner):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, invitationdomain.ErrInviteExpired):
		return http.StatusGone, errorPayload{
			Type:    "invite_expired",
			Message: "invitation has expired",
		}
	case errors.Is(err, membershipdomain.ErrLastOwner):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "last_owner",
			Message: "an organization must keep at least one owner",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, namespacedomain.ErrSlugNotFound),
		errors.Is(err, organizationdomain.ErrOrgNotFound),
		errors.Is(err, organizationdomain.ErrNotOrgEntity),
		errors.Is(err, userdomain.ErrUserNotFound),
		errors.Is(err, userdomain.ErrNotUserEntity),
		errors.Is(err, membershipdomain.ErrMemberNotFound),
		errors.Is(err, invitationdomain.ErrInviteNotFound),
		errors.Is(err, projectdomain.ErrProjectNotFound),
		errors.Is(err, owner.ErrOwnerNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, namespacedomain.ErrSlugTaken),
		errors.Is(err, membershipdomain.ErrDuplicateMember),
		errors.Is(err, projectdomain.ErrProjectSlugTaken),
		errors.Is(err, invitationdomain.ErrInviteClosed):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, namespacedomain.ErrInvalidSlug),
		errors.Is(err, namespacedomain.ErrInvalidKind),
		errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidUser),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, invitationdomain.ErrInvalidEmail),
		errors.Is(err, invitationdomain.ErrInvalidTTL),
		errors.Is(err, membershipdomain.ErrInvalidMember),
		errors.Is(err, followdomain.ErrSelfFollow),
		errors.Is(err, projectdomain.ErrInvalidProjectName),
		errors.Is(err, role.ErrInvalidRole):
		return true
	default:
		return false
	}
}
