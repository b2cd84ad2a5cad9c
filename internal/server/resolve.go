package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ResolveOwner(c *gin.Context) {
	ref, err := s.ownerSvc.ResolveOwner(c.Request.Context(), c.Param("owner"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ref)
}

func (s *Server) ResolveNested(c *gin.Context) {
	nested, err := s.ownerSvc.ResolveNested(c.Request.Context(), c.Param("owner"), c.Param("project"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, nested)
}
