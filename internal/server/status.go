package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatus reports queue depth counters and worker liveness. Counters are
// observability data, not exact backlog sizes.
func (s *Server) GetStatus(c *gin.Context) {
	stats, err := s.queue.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queue":         stats,
		"worker_status": stats.WorkerStatus,
	})
}
