package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invitationdomain "github.com/smallbiznis/orghub/internal/invitation/domain"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

type createInvitationRequest struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	TTLHours int    `json:"ttl_hours"`
}

func (s *Server) CreateInvitation(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	orgID, ok := orgIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Role and TTL fall back to the invitation policy when omitted.
	var invRole role.Role
	if raw := strings.TrimSpace(req.Role); raw != "" {
		parsed, err := role.Parse(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		invRole = parsed
	}

	inv, err := s.invitationSvc.Create(c.Request.Context(), invitationdomain.CreateRequest{
		OrgID:     orgID,
		Email:     strings.TrimSpace(req.Email),
		Role:      invRole,
		InvitedBy: actor,
		TTL:       time.Duration(req.TTLHours) * time.Hour,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (s *Server) ListInvitations(c *gin.Context) {
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

	invitations, err := s.invitationSvc.ListByOrg(c.Request.Context(), orgID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invitations.Items, "total": invitations.Total})
}

func (s *Server) AcceptInvitation(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	member, err := s.invitationSvc.Accept(c.Request.Context(), actor, c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (s *Server) DeclineInvitation(c *gin.Context) {
	if err := s.invitationSvc.Decline(c.Request.Context(), c.Param("token")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "declined"})
}

func (s *Server) CancelInvitation(c *gin.Context) {
	if err := s.invitationSvc.Cancel(c.Request.Context(), c.Param("token")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
