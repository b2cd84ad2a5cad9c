package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smallbiznis/orghub/internal/authorization"
	"github.com/smallbiznis/orghub/internal/role"
)

const (
	// HeaderActor carries the acting principal's ID. Every mutating
	// endpoint requires it explicitly; there is no ambient current
	// user.
	HeaderActor     = "X-Actor-Id"
	HeaderRequestID = "X-Request-Id"

	contextActorIDKey   = "actor_id"
	contextRequestIDKey = "request_id"
	contextOrgIDKey     = "org_id"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestIDKey, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// ActorRequired rejects requests that do not name an acting principal.
func (s *Server) ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderActor))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		actorID, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(contextActorIDKey, actorID)
		c.Next()
	}
}

func actorID(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(contextActorIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

// requireOrgRole resolves the :slug path parameter to an organization,
// asks the access guard whether the actor clears the required role, and
// turns the decision into the HTTP effect. On success the resolved org
// ID is stashed for the handler.
func (s *Server) requireOrgRole(required role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		org, err := s.organizationSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		decision, err := s.authzSvc.Evaluate(c.Request.Context(), actor, org.ID, required)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !decision.Allowed {
			if decision.Reason == authorization.ReasonOrgNotFound {
				AbortWithError(c, ErrNotFound)
				return
			}
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Set(contextOrgIDKey, org.ID)
		c.Next()
	}
}

func orgIDFromContext(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(contextOrgIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}
