package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ambient-chat/domain"
)

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Snapshot())
}

// roomTimeline returns the in-memory tail of a room's event stream.
// It reflects what connected clients were sent, not the durable log.
func (s *Server) roomTimeline(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room":    id,
		"entries": s.timeline.Recent(domain.RoomID(id)),
	})
}
