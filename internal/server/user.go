package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	userdomain "github.com/smallbiznis/orghub/internal/user/domain"
)

type createUserRequest struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	Website   string `json:"website"`
	AvatarURL string `json:"avatar_url"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateUserRequest{
		Username:  strings.TrimSpace(req.Username),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Bio:       req.Bio,
		Location:  req.Location,
		Website:   req.Website,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (s *Server) GetUserByUsername(c *gin.Context) {
	user, err := s.userSvc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
	AvatarURL *string `json:"avatar_url"`
	IsActive  *bool   `json:"is_active"`
}

func (s *Server) UpdateUserProfile(c *gin.Context) {
	user, ok := s.actorOwnsProfile(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.userSvc.UpdateProfile(c.Request.Context(), user.ID, userdomain.UpdateProfileRequest{
		Name:      req.Name,
		Email:     req.Email,
		Bio:       req.Bio,
		Location:  req.Location,
		Website:   req.Website,
		AvatarURL: req.AvatarURL,
		IsActive:  req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

type renameRequest struct {
	NewSlug string `json:"new_slug"`
}

func (s *Server) RenameUser(c *gin.Context) {
	user, ok := s.actorOwnsProfile(c)
	if !ok {
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.userSvc.Rename(c.Request.Context(), user.ID, strings.TrimSpace(req.NewSlug))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) UpdateUserSettings(c *gin.Context) {
	user, ok := s.actorOwnsProfile(c)
	if !ok {
		return
	}

	var settings map[string]any
	if err := c.ShouldBindJSON(&settings); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.userSvc.UpdateSettings(c.Request.Context(), user.ID, settings)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// actorOwnsProfile loads the :username profile and checks the acting
// principal is that same account. Profile mutation is strictly
// first-person.
func (s *Server) actorOwnsProfile(c *gin.Context) (*userdomain.User, bool) {
	actor, found := actorID(c)
	if !found {
		AbortWithError(c, ErrUnauthorized)
		return nil, false
	}

	u, err := s.userSvc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	if u.ID != actor {
		AbortWithError(c, ErrForbidden)
		return nil, false
	}
	return u, true
}
