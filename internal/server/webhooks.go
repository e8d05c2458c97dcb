package server

import (
	"net/http"

	webhookdomain "github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) ListWebhookLogs(c *gin.Context) {
	merchant := currentMerchant(c)

	limit := queryInt(c, "limit", 10)
	offset := queryInt(c, "offset", 0)
	logs, total, err := s.webhookSvc.List(c.Request.Context(), merchant.ID, limit, offset)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"webhook_logs": logs,
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	})
}

func (s *Server) RetryWebhook(c *gin.Context) {
	merchant := currentMerchant(c)

	logID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, webhookdomain.ErrLogNotFound)
		return
	}

	logRow, err := s.webhookSvc.Retry(c.Request.Context(), merchant.ID, logID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Webhook retry enqueued",
		"webhook_log": logRow,
	})
}
