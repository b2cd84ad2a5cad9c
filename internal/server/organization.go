package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	organizationdomain "github.com/smallbiznis/orghub/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Email       string `json:"email"`
	IsPublic    *bool  `json:"is_public"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), actor, organizationdomain.CreateOrganizationRequest{
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.TrimSpace(req.Slug),
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Email:       req.Email,
		IsPublic:    isPublic,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}

func (s *Server) ListOrganizations(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	items, err := s.organizationSvc.ListByUser(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetOrganizationBySlug(c *gin.Context) {
	org, err := s.organizationSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

type updateOrganizationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	Location    *string `json:"location"`
	Email       *string `json:"email"`
	IsPublic    *bool   `json:"is_public"`
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.organizationSvc.Update(c.Request.Context(), orgID, organizationdomain.UpdateOrganizationRequest{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Email:       req.Email,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

func (s *Server) RenameOrganization(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.organizationSvc.Rename(c.Request.Context(), orgID, strings.TrimSpace(req.NewSlug))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}
