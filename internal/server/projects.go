package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	projectdomain "github.com/smallbiznis/orghub/internal/project/domain"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

func (s *Server) CreateOrgProject(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	project, err := s.projectSvc.Create(c.Request.Context(), projectdomain.CreateProjectRequest{
		OwnerID:     orgID,
		OwnerKind:   namespacedomain.KindOrganization,
		Slug:        strings.TrimSpace(req.Slug),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsPublic:    isPublic,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (s *Server) ListOrgProjects(c *gin.Context) {
	org, err := s.organizationSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	projects, err := s.projectSvc.ListByOwner(c.Request.Context(), org.ID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": projects.Items, "total": projects.Total})
}

func (s *Server) CreateUserProject(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	project, err := s.projectSvc.Create(c.Request.Context(), projectdomain.CreateProjectRequest{
		OwnerID:     actor,
		OwnerKind:   namespacedomain.KindUser,
		Slug:        strings.TrimSpace(req.Slug),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsPublic:    isPublic,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (s *Server) DeleteProject(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := s.projectSvc.GetByID(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Personal projects are deletable only by their owner; org projects
	// need an admin seat.
	switch project.OwnerKind {
	case namespacedomain.KindUser:
		if project.OwnerID != actor {
			AbortWithError(c, ErrForbidden)
			return
		}
	case namespacedomain.KindOrganization:
		decision, err := s.authzSvc.Evaluate(c.Request.Context(), actor, project.OwnerID, role.Admin)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !decision.Allowed {
			AbortWithError(c, ErrForbidden)
			return
		}
	default:
		AbortWithError(c, ErrInternal)
		return
	}

	if err := s.projectSvc.Delete(c.Request.Context(), projectID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
