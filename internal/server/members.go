package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

func (s *Server) ListMembers(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	members, err := s.membershipSvc.ListMembers(c.Request.Context(), orgID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members.Items, "total": members.Total})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) ChangeMemberRole(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	newRole, err := role.Parse(strings.TrimSpace(req.Role))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.membershipSvc.ChangeRole(c.Request.Context(), orgID, userID, newRole); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) RemoveMember(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := s.membershipSvc.RemoveMember(c.Request.Context(), orgID, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, param string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param(param)))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return 0, false
	}
	return id, true
}
