package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	userdomain "github.com/smallbiznis/orghub/internal/user/domain"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

func (s *Server) FollowUser(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	target, ok := s.resolveUser(c)
	if !ok {
		return
	}

	if err := s.followSvc.Follow(c.Request.Context(), actor, target.ID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "following"})
}

func (s *Server) UnfollowUser(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	target, ok := s.resolveUser(c)
	if !ok {
		return
	}

	if err := s.followSvc.Unfollow(c.Request.Context(), actor, target.ID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListFollowers(c *gin.Context) {
	target, ok := s.resolveUser(c)
	if !ok {
		return
	}

	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	edges, err := s.followSvc.ListFollowers(c.Request.Context(), target.ID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ids := make([]snowflake.ID, 0, len(edges.Items))
	for _, e := range edges.Items {
		ids = append(ids, e.FollowerID)
	}
	c.JSON(http.StatusOK, gin.H{"data": ids, "total": edges.Total})
}

func (s *Server) ListFollowing(c *gin.Context) {
	target, ok := s.resolveUser(c)
	if !ok {
		return
	}

	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	edges, err := s.followSvc.ListFollowing(c.Request.Context(), target.ID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ids := make([]snowflake.ID, 0, len(edges.Items))
	for _, e := range edges.Items {
		ids = append(ids, e.FolloweeID)
	}
	c.JSON(http.StatusOK, gin.H{"data": ids, "total": edges.Total})
}

func (s *Server) FollowCounts(c *gin.Context) {
	target, ok := s.resolveUser(c)
	if !ok {
		return
	}

	counts, err := s.followSvc.Counts(c.Request.Context(), target.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (s *Server) resolveUser(c *gin.Context) (*userdomain.User, bool) {
	u, err := s.userSvc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return u, true
}
