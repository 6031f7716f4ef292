package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
)

func (s *Server) ListTimeEntries(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	unbilled, _ := strconv.ParseBool(c.Query("unbilled"))
	if unbilled {
		entries, err := s.timeEntrySvc.ListUnbilled(ctx, userID, c.Query("client_id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": entries})
		return
	}

	entries, err := s.timeEntrySvc.List(ctx, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) CreateTimeEntry(c *gin.Context) {
	var req timeentrydomain.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	entry, err := s.timeEntrySvc.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (s *Server) DeleteTimeEntry(c *gin.Context) {
	if err := s.timeEntrySvc.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
